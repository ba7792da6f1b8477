package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Ruleset records a rule set name under "ruleset".
func Ruleset(name string) slog.Attr {
	return slog.String("ruleset", name)
}

// Digest records a rule set content digest, shortened to 12 characters.
func Digest(digest string) slog.Attr {
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return slog.String("digest", digest)
}

// Field records a field pattern or resolved path under "field".
func Field(path string) slog.Attr {
	return slog.String("field", path)
}

// Rule records a validation rule name under "rule".
func Rule(name string) slog.Attr {
	return slog.String("rule", name)
}

// Duration records d in milliseconds under "duration_ms".
func Duration(d time.Duration) slog.Attr {
	return slog.Float64("duration_ms", float64(d)/float64(time.Millisecond))
}

func Path(path string) slog.Attr {
	return slog.String("path", path)
}
