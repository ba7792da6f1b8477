package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/validator"
)

const (
	keyName        = "name"
	keyDescription = "description"
	keyRules       = "rules"
)

// Parse reads a rule set in the given format. The document is either a
// mapping with name, description and rules keys, or, when it has no rules
// key, the rules mapping itself. Declarations keep the order of the source.
func Parse(data []byte, format document.Format) (*Ruleset, error) {
	var (
		rs  *Ruleset
		err error
	)
	switch format {
	case document.FormatJSON:
		rs, err = parseJSON(data)
	case document.FormatYAML:
		rs, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if rs.Name != "" {
		if err := ValidateName(rs.Name); err != nil {
			return nil, err
		}
	}
	rs.Format = format
	rs.Source = bytes.Clone(data)
	rs.digest = digest(rs.Source)
	return rs, nil
}

// LoadFile parses the file at path, inferring the format from its extension.
// A rule set without a name is named after the file.
func LoadFile(path string) (*Ruleset, error) {
	format, err := document.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	rs, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rs.Name == "" {
		rs.Name = nameFromPath(path)
	}
	return rs, nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRuleset, fmt.Sprintf(format, args...))
}

// builder collects top-level entries until it is known whether the document
// carries a rules key.
type builder struct {
	entries  []entry
	rules    []validator.Declaration
	hasRules bool
}

type entry struct {
	key   string
	value validator.Value
}

func (b *builder) add(key string, v validator.Value) {
	b.entries = append(b.entries, entry{key: key, value: v})
}

func (b *builder) build() (*Ruleset, error) {
	if !b.hasRules {
		decls := make([]validator.Declaration, 0, len(b.entries))
		for _, e := range b.entries {
			d, err := declaration(e.key, e.value)
			if err != nil {
				return nil, errors.Join(ErrInvalidRuleset, err)
			}
			decls = append(decls, d)
		}
		return &Ruleset{Declarations: decls}, nil
	}

	rs := &Ruleset{Declarations: b.rules}
	for _, e := range b.entries {
		s, ok := e.value.AsString()
		switch e.key {
		case keyName:
			if !ok {
				return nil, invalid("name must be a string")
			}
			rs.Name = s
		case keyDescription:
			if !ok {
				return nil, invalid("description must be a string")
			}
			rs.Description = s
		default:
			return nil, invalid("unknown key %q", e.key)
		}
	}
	return rs, nil
}

// declaration accepts a list of rule entries or a single entry.
func declaration(field string, v validator.Value) (validator.Declaration, error) {
	switch v.Kind() {
	case validator.KindList:
		items := v.Items()
		rules := make([]any, len(items))
		for i, item := range items {
			rules[i] = item
		}
		return validator.Declaration{Field: field, Rules: rules}, nil
	case validator.KindString:
		return validator.Declaration{Field: field, Rules: []any{v}}, nil
	default:
		return validator.Declaration{}, fmt.Errorf("field %q: rules must be a list, got %s", field, v.TypeName())
	}
}

func parseJSON(data []byte) (*Ruleset, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	if dec.PeekKind() != '{' {
		return nil, invalid("top-level value must be an object")
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, invalid("%v", err)
	}

	var b builder
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, invalid("%v", err)
		}
		key := tok.String()
		if key == keyRules && dec.PeekKind() == '{' {
			b.hasRules = true
			if b.rules, err = readJSONRules(dec); err != nil {
				return nil, err
			}
			continue
		}
		v, err := document.ReadJSON(dec)
		if err != nil {
			return nil, errors.Join(ErrInvalidRuleset, err)
		}
		if key == keyRules {
			return nil, invalid("rules must be an object, got %s", v.TypeName())
		}
		b.add(key, v)
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, invalid("%v", err)
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return nil, invalid("unexpected data after top-level object")
	}
	return b.build()
}

func readJSONRules(dec *jsontext.Decoder) ([]validator.Declaration, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, invalid("%v", err)
	}
	var decls []validator.Declaration
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return nil, invalid("%v", err)
		}
		v, err := document.ReadJSON(dec)
		if err != nil {
			return nil, errors.Join(ErrInvalidRuleset, err)
		}
		d, err := declaration(tok.String(), v)
		if err != nil {
			return nil, errors.Join(ErrInvalidRuleset, err)
		}
		decls = append(decls, d)
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, invalid("%v", err)
	}
	return decls, nil
}

func parseYAML(data []byte) (*Ruleset, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, invalid("%v", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, invalid("top-level value must be a mapping")
	}
	top := root.Content[0]

	var b builder
	err := eachPair(top, func(key string, value *yaml.Node) error {
		if key == keyRules {
			if value.Kind != yaml.MappingNode {
				return invalid("rules must be a mapping")
			}
			b.hasRules = true
			return eachPair(value, func(field string, rules *yaml.Node) error {
				v, err := document.FromYAMLNode(rules)
				if err != nil {
					return errors.Join(ErrInvalidRuleset, err)
				}
				d, err := declaration(field, v)
				if err != nil {
					return errors.Join(ErrInvalidRuleset, err)
				}
				b.rules = append(b.rules, d)
				return nil
			})
		}
		v, err := document.FromYAMLNode(value)
		if err != nil {
			return errors.Join(ErrInvalidRuleset, err)
		}
		b.add(key, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.build()
}

// eachPair walks a mapping node in source order, rejecting non-scalar and
// duplicate keys.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return invalid("line %d: mapping keys must be scalars", k.Line)
		}
		if seen[k.Value] {
			return invalid("line %d: duplicate key %q", k.Line, k.Value)
		}
		seen[k.Value] = true
		if err := fn(k.Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
