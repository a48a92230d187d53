// Package logging builds the logrus logger used across the service and
// carries per-request trace ids through contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type traceKey struct{}

// New returns a logger writing to stderr at the given level ("debug",
// "info", ...) in "text" or "json" format.
func New(level, format string) (*logrus.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

func NewWithOutput(w io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

func NewTraceID() string { return uuid.NewString() }

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// FromContext returns an entry tagged with the request trace id, if any.
func FromContext(ctx context.Context, logger logrus.FieldLogger) logrus.FieldLogger {
	if id := TraceID(ctx); id != "" {
		return logger.WithField("trace_id", id)
	}
	return logger
}
