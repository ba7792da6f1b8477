package ruleset

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/docval/pkg/cache"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/validator"
)

const defaultCatalogSize = 128

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCacheSize bounds the number of compiled validators kept in memory.
func WithCacheSize(n int) CatalogOption {
	return func(c *Catalog) {
		if n > 0 {
			c.size = n
		}
	}
}

// WithValidatorOptions is passed to every compilation.
func WithValidatorOptions(opts ...validator.Option) CatalogOption {
	return func(c *Catalog) { c.opts = opts }
}

func WithCatalogLogger(l *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Catalog compiles rule sets from a store on demand. Compiled validators are
// cached under name@digest, so an updated rule set is recompiled on its next
// use without explicit invalidation.
type Catalog struct {
	store  Store
	cache  *cache.Loading[*validator.Validator]
	opts   []validator.Option
	logger *slog.Logger
	size   int
}

func NewCatalog(store Store, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		store:  store,
		logger: logger.Discard(),
		size:   defaultCatalogSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = cache.NewLoading[*validator.Validator](c.size)
	return c
}

// Store returns the underlying store.
func (c *Catalog) Store() Store { return c.store }

// Validator returns the compiled validator for the named rule set together
// with the rule set it was compiled from.
func (c *Catalog) Validator(ctx context.Context, name string) (*validator.Validator, *Ruleset, error) {
	rs, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	v, err := c.cache.Get(cacheKey(name, rs.Digest()), func() (*validator.Validator, error) {
		start := time.Now()
		v, err := rs.Compile(c.opts...)
		if err != nil {
			c.logger.WarnContext(ctx, "ruleset does not compile",
				logger.Ruleset(name), logger.Digest(rs.Digest()), logger.Error(err))
			return nil, err
		}
		c.logger.DebugContext(ctx, "ruleset compiled",
			logger.Ruleset(name), logger.Digest(rs.Digest()), logger.Duration(time.Since(start)))
		return v, nil
	})
	if err != nil {
		return nil, rs, err
	}
	return v, rs, nil
}

// Invalidate drops every compiled version of the named rule set.
func (c *Catalog) Invalidate(names ...string) {
	for _, name := range names {
		prefix := name + "@"
		c.cache.RemoveFunc(func(key string) bool { return strings.HasPrefix(key, prefix) })
	}
}

// Stats reports the compiled-validator cache counters.
func (c *Catalog) Stats() cache.Stats { return c.cache.Stats() }

// Len is the number of cached validators.
func (c *Catalog) Len() int { return c.cache.Len() }

func cacheKey(name, digest string) string { return name + "@" + digest }
