// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware keeps a client-supplied X-Request-ID when it is at most 128
// characters of letters, digits, '-' and '_', and generates a UUIDv4
// otherwise. The id is stored in the request context, returned in the
// response header and picked up by LoggerExtractor for log records.
package requestid
