package environment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEnvironment is returned by Parse for unrecognised names.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is the deployment stage the process runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse accepts the canonical names and the short forms dev, stage and prod,
// in any case. An empty string is Development.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development", "local":
		return Development, nil
	case "stage", "staging":
		return Staging, nil
	case "prod", "production":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

func (e Environment) String() string { return string(e) }

func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsStaging() bool     { return e == Staging }
func (e Environment) IsDevelopment() bool { return e == Development }
