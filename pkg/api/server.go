package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/docval/pkg/environment"
	"github.com/dmitrymomot/docval/pkg/httpserver"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/metrics"
	"github.com/dmitrymomot/docval/pkg/requestid"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records validations in c and serves it on /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithEnvironment tags every request context with env.
func WithEnvironment(env environment.Environment) Option {
	return func(s *Server) { s.env = env }
}

// WithReadinessChecks adds checks to /health/ready. Stores with a
// Ping(ctx) error method are checked without this option.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

// WithValidatorOptions applies to rule sets sent inline to /v1/validate.
// Stored rule sets are compiled with the catalog's own options.
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(s *Server) { s.validatorOpts = opts }
}

// Server is the HTTP API over a rule set catalog.
//
// Routes:
//
//	POST   /v1/validate                   validate "data" against inline "rules"
//	GET    /v1/rulesets                   list stored rule set names
//	GET    /v1/rulesets/{name}            fetch a rule set source
//	PUT    /v1/rulesets/{name}            compile and store a rule set
//	DELETE /v1/rulesets/{name}            delete a rule set
//	POST   /v1/rulesets/{name}/validate   validate the body against a stored rule set
//	GET    /health/live, /health/ready, /metrics
type Server struct {
	cfg           Config
	catalog       *ruleset.Catalog
	logger        *slog.Logger
	metrics       *metrics.Collector
	env           environment.Environment
	checks        []httpserver.Check
	validatorOpts []validator.Option
	router        chi.Router
}

type pinger interface {
	Ping(ctx context.Context) error
}

func New(cfg Config, catalog *ruleset.Catalog, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg.withDefaults(),
		catalog: catalog,
		logger:  logger.Discard(),
		env:     environment.Development,
	}
	for _, opt := range opts {
		opt(s)
	}
	if p, ok := catalog.Store().(pinger); ok {
		s.checks = append(s.checks, p.Ping)
	}
	s.logger = s.logger.With(logger.Component("api"))
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		environment.Middleware(s.env),
		logRequests(s.logger),
		middleware.Recoverer,
	)
	r.NotFound(s.wrap(func(http.ResponseWriter, *http.Request) error {
		return ErrNotFound.WithMessage("route not found")
	}))
	r.MethodNotAllowed(s.wrap(func(http.ResponseWriter, *http.Request) error {
		return HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed"}
	}))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(s.logger, s.cfg.ReadinessTimeout, s.checks...))
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody(s.cfg.MaxBodySize))
		r.Post("/validate", s.wrap(s.validateInline))
		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/", s.wrap(s.listRulesets))
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.wrap(s.getRuleset))
				r.Put("/", s.wrap(s.putRuleset))
				r.Delete("/", s.wrap(s.deleteRuleset))
				r.Post("/validate", s.wrap(s.validateStored))
			})
		})
	})
	return r
}
