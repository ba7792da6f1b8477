package document

import "errors"

var (
	// ErrUnsupportedFormat is returned for formats other than JSON and YAML.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidDocument is returned when the input cannot be decoded.
	ErrInvalidDocument = errors.New("invalid document")
)
