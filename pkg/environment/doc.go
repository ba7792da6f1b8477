// Package environment names the deployment stage (development, staging,
// production) and carries it through contexts, HTTP requests and logs.
//
// Parse normalises configuration input such as "prod" or "STAGE".
// Middleware stores the value in every request context, FromContext reads it
// back, and LoggerExtractor plugs it into pkg/logger so that log records
// carry an "env" attribute.
package environment
