// Package redis connects docval to a Redis server.
//
// Connect parses the connection URL, pings the server and retries according
// to Config until the server answers or the connect timeout expires.
// Healthcheck adapts a client into a readiness probe for the HTTP server.
//
// Config fields carry github.com/caarlos0/env tags, so the usual way to build
// one is through pkg/config:
//
//	cfg, err := config.LoadWithPrefix[redis.Config]("DOCVAL_")
//	if err != nil {
//	    return err
//	}
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    if err != nil {
//	        return err
//	    }
//	    defer client.Close()
//	}
//
// Errors are sentinel values joined with the go-redis cause, so callers can
// match them with errors.Is.
package redis
