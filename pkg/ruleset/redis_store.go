package ruleset

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/docval/pkg/document"
	redisx "github.com/dmitrymomot/docval/pkg/redis"
)

// RedisStore keeps each rule set in a hash holding its format and source,
// and the set of names in an index set.
//
//	<prefix>ruleset:<name>  hash {format, source, digest, updated_at}
//	<prefix>rulesets        set of names
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	health func(context.Context) error
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		health: redisx.Healthcheck(client),
	}
}

func (s *RedisStore) key(name string) string { return s.prefix + "ruleset:" + name }
func (s *RedisStore) index() string          { return s.prefix + "rulesets" }

func (s *RedisStore) Get(ctx context.Context, name string) (*Ruleset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.key(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("get ruleset %s: %w", name, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	rs, err := Parse([]byte(fields["source"]), document.Format(fields["format"]))
	if err != nil {
		return nil, fmt.Errorf("stored ruleset %s: %w", name, err)
	}
	rs.Name = name
	return rs, nil
}

func (s *RedisStore) Put(ctx context.Context, rs *Ruleset) error {
	if err := ValidateName(rs.Name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(rs.Name),
			"format", string(rs.Format),
			"source", rs.Source,
			"digest", rs.Digest(),
			"updated_at", time.Now().UTC().Format(time.RFC3339),
		)
		pipe.SAdd(ctx, s.index(), rs.Name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put ruleset %s: %w", rs.Name, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.key(name))
		pipe.SRem(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete ruleset %s: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Ping checks the connection; it doubles as a readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.health(ctx)
}
