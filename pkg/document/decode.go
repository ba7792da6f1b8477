package document

import (
	"fmt"
	"io"

	"github.com/dmitrymomot/docval/pkg/validator"
)

// Decode reads r to the end and decodes it in the given format.
func Decode(r io.Reader, format Format) (validator.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return validator.Null(), fmt.Errorf("read document: %w", err)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes decodes data in the given format.
func DecodeBytes(data []byte, format Format) (validator.Value, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	default:
		return validator.Null(), fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
