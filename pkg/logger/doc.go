// Package logger builds the slog loggers used across docval.
//
// New creates a *slog.Logger from functional options. WithEnvironment picks
// sensible defaults per deployment stage, Config maps LOG_LEVEL and
// LOG_FORMAT onto options, and WithContextExtractors registers callbacks that
// copy request-scoped values (request id, environment) from the context into
// every record through ContextHandler.
//
// Attribute helpers in attr.go keep key names consistent: Ruleset, Digest,
// Field, Rule and Duration describe validation work, Error and Errors drop
// out when given nil.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "docval"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "document validated",
//	    logger.Ruleset("signup"),
//	    logger.Duration(time.Since(start)),
//	)
package logger
