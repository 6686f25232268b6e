package logging

import (
	"context"

	"github.com/samber/oops"
)

// LogError logs err at error level. For oops errors the code and context
// map are emitted as separate attributes.
func LogError(ctx context.Context, logger Logger, msg string, err error) {
	LogErrorAt(ctx, logger.Error, msg, err)
}

// LogErrorAt is LogError with a caller-chosen level function, e.g. logger.Warn.
func LogErrorAt(ctx context.Context, logf func(ctx context.Context, msg string, args ...any), msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if domain := oopsErr.Domain(); domain != "" {
			attrs = append(attrs, "domain", domain)
		}
		if octx := oopsErr.Context(); len(octx) > 0 {
			attrs = append(attrs, "context", octx)
		}
		logf(ctx, msg, attrs...)
		return
	}
	logf(ctx, msg, "error", err)
}
