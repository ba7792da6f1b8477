package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/docval/pkg/validator"
)

// DecodeYAML decodes the first YAML document of data. Empty input decodes to
// null.
func DecodeYAML(data []byte) (validator.Value, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return validator.Null(), nil
		}
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return FromYAMLNode(&root)
}

// FromYAMLNode converts a decoded YAML node. Aliases are expanded.
func FromYAMLNode(n *yaml.Node) (validator.Value, error) {
	return fromNode(n, 0)
}

// maxAliasDepth bounds alias expansion so recursive anchors fail instead of
// looping.
const maxAliasDepth = 64

func fromNode(n *yaml.Node, depth int) (validator.Value, error) {
	if n == nil {
		return validator.Null(), nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return validator.Null(), nil
		}
		return fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return validator.Null(), fmt.Errorf("%w: alias nesting too deep at line %d", ErrInvalidDocument, n.Line)
		}
		return fromNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]validator.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, depth)
			if err != nil {
				return validator.Null(), err
			}
			items = append(items, v)
		}
		return validator.List(items...), nil
	case yaml.MappingNode:
		m := make(map[string]validator.Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return validator.Null(), fmt.Errorf("%w: non-scalar mapping key at line %d", ErrInvalidDocument, key.Line)
			}
			if _, dup := m[key.Value]; dup {
				return validator.Null(), fmt.Errorf("%w: duplicate key %q at line %d", ErrInvalidDocument, key.Value, key.Line)
			}
			v, err := fromNode(n.Content[i+1], depth)
			if err != nil {
				return validator.Null(), err
			}
			m[key.Value] = v
		}
		return validator.Map(m), nil
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return validator.Null(), fmt.Errorf("%w: unexpected node kind %d", ErrInvalidDocument, n.Kind)
	}
}

func scalar(n *yaml.Node) (validator.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return validator.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return validator.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return validator.Int(i), nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
		if err != nil {
			return validator.Null(), fmt.Errorf("%w: integer %s out of range at line %d", ErrInvalidDocument, n.Value, n.Line)
		}
		return validator.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return validator.Null(), fmt.Errorf("%w: non-finite number at line %d", ErrInvalidDocument, n.Line)
		}
		return validator.Float(f), nil
	default:
		// Strings, timestamps and binary data keep their literal text.
		return validator.String(n.Value), nil
	}
}
