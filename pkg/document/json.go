package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/dmitrymomot/docval/pkg/validator"
)

// DecodeJSON decodes a single JSON value. Trailing data after the value is
// an error.
func DecodeJSON(data []byte) (validator.Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := ReadJSON(dec)
	if err != nil {
		return validator.Null(), err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		return validator.Null(), fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidDocument)
	}
	return v, nil
}

// ReadJSON reads the next value from dec.
func ReadJSON(dec *jsontext.Decoder) (validator.Value, error) {
	switch dec.PeekKind() {
	case '{':
		return readObject(dec)
	case '[':
		return readArray(dec)
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	switch tok.Kind() {
	case 'n':
		return validator.Null(), nil
	case 't', 'f':
		return validator.Bool(tok.Bool()), nil
	case '"':
		return validator.String(tok.String()), nil
	case '0':
		return number(tok.String())
	default:
		return validator.Null(), fmt.Errorf("%w: unexpected token %s", ErrInvalidDocument, tok.Kind())
	}
}

func readObject(dec *jsontext.Decoder) (validator.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	m := make(map[string]validator.Value)
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		v, err := ReadJSON(dec)
		if err != nil {
			return validator.Null(), err
		}
		m[name.String()] = v
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return validator.Map(m), nil
}

func readArray(dec *jsontext.Decoder) (validator.Value, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	items := []validator.Value{}
	for dec.PeekKind() != ']' {
		v, err := ReadJSON(dec)
		if err != nil {
			return validator.Null(), err
		}
		items = append(items, v)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return validator.Null(), fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return validator.List(items...), nil
}

// number keeps integral literals that fit in int64 as Int.
func number(raw string) (validator.Value, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return validator.Int(i), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return validator.Null(), fmt.Errorf("%w: number %s out of range", ErrInvalidDocument, raw)
	}
	return validator.Float(f), nil
}
