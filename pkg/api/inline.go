package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

// inlineRequest is the body of POST /v1/validate: a rule set and the
// document to check against it.
type inlineRequest struct {
	Rules *ruleset.Ruleset
	Data  validator.Value
}

func decodeInline(data []byte, format document.Format) (inlineRequest, error) {
	switch format {
	case document.FormatJSON:
		return decodeInlineJSON(data)
	case document.FormatYAML:
		return decodeInlineYAML(data)
	default:
		return inlineRequest{}, fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, format)
	}
}

func decodeInlineJSON(data []byte) (inlineRequest, error) {
	req := inlineRequest{Data: validator.Null()}
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	if dec.PeekKind() != '{' {
		return req, ErrBadRequest.WithMessage(`body must be an object with "rules" and "data"`)
	}
	if _, err := dec.ReadToken(); err != nil {
		return req, invalidDocument(err)
	}

	var rules []byte
	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return req, invalidDocument(err)
		}
		switch tok.String() {
		case "rules":
			raw, err := dec.ReadValue()
			if err != nil {
				return req, invalidDocument(err)
			}
			rules = bytes.Clone(raw)
		case "data":
			if req.Data, err = document.ReadJSON(dec); err != nil {
				return req, err
			}
		default:
			if err := dec.SkipValue(); err != nil {
				return req, invalidDocument(err)
			}
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return req, invalidDocument(err)
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return req, invalidDocument(errors.New("unexpected data after top-level value"))
	}

	if rules == nil {
		return req, ErrBadRequest.WithMessage(`"rules" is required`)
	}
	rs, err := ruleset.Parse(rules, document.FormatJSON)
	if err != nil {
		return req, err
	}
	req.Rules = rs
	return req, nil
}

func decodeInlineYAML(data []byte) (inlineRequest, error) {
	req := inlineRequest{Data: validator.Null()}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return req, invalidDocument(err)
	}
	body := &root
	if body.Kind == yaml.DocumentNode && len(body.Content) == 1 {
		body = body.Content[0]
	}
	if body.Kind != yaml.MappingNode {
		return req, ErrBadRequest.WithMessage(`body must be a mapping with "rules" and "data"`)
	}

	var rules *yaml.Node
	for i := 0; i+1 < len(body.Content); i += 2 {
		switch body.Content[i].Value {
		case "rules":
			rules = body.Content[i+1]
		case "data":
			v, err := document.FromYAMLNode(body.Content[i+1])
			if err != nil {
				return req, err
			}
			req.Data = v
		}
	}
	if rules == nil {
		return req, ErrBadRequest.WithMessage(`"rules" is required`)
	}

	src, err := yaml.Marshal(rules)
	if err != nil {
		return req, invalidDocument(err)
	}
	rs, err := ruleset.Parse(src, document.FormatYAML)
	if err != nil {
		return req, err
	}
	req.Rules = rs
	return req, nil
}

func invalidDocument(err error) error {
	return fmt.Errorf("%w: %v", document.ErrInvalidDocument, err)
}
