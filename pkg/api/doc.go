// Package api exposes validation over HTTP.
//
// Server routes requests with chi. Rule sets are either sent inline with the
// document (POST /v1/validate) or stored through the /v1/rulesets endpoints
// and referenced by name. Bodies are JSON unless the Content-Type names YAML.
//
// A document that fails validation is a successful request: the response is
// 200 with "valid": false and the failures keyed by field path. Errors are
// reported as
//
//	{"error": {"code": "invalid_ruleset", "message": "..."}}
//
// with 400 for malformed input, 404 for unknown rule sets, 413 for oversized
// bodies, 422 for rule sets that do not compile and 500 otherwise.
//
// Usage:
//
//	catalog := ruleset.NewCatalog(store)
//	srv := api.New(cfg, catalog,
//	    api.WithLogger(log),
//	    api.WithMetrics(collector),
//	)
//	err := httpserver.New(httpCfg, srv).Run(ctx)
package api
