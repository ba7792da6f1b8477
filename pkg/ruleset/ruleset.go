package ruleset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/validator"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateName reports ErrInvalidName unless name is 1-64 characters of
// lowercase letters, digits, '_' and '-', starting with a letter or digit.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Ruleset is a named, ordered list of declarations together with the source
// it was parsed from.
type Ruleset struct {
	Name         string
	Description  string
	Declarations []validator.Declaration
	Format       document.Format
	Source       []byte

	digest string
}

// Digest is the hex SHA-256 of the source. Two rule sets with the same digest
// compile to equivalent validators.
func (r *Ruleset) Digest() string {
	if r.digest != "" {
		return r.digest
	}
	return digest(r.Source)
}

func digest(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Fields lists the declared field patterns in declaration order.
func (r *Ruleset) Fields() []string {
	fields := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		fields[i] = d.Field
	}
	return fields
}

// Compile builds a validator from the declarations. Configuration errors are
// joined with ErrInvalidRuleset.
func (r *Ruleset) Compile(opts ...validator.Option) (*validator.Validator, error) {
	v, err := validator.Compile(r.Declarations, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidRuleset, err)
	}
	return v, nil
}
