package config

import (
	"errors"
	"fmt"

	"github.com/stepherg/rigtune"
)

var ErrInvalidConfig = errors.New("invalid config")

func validate(o rigtune.Options) error {
	if o.ListenAddr == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, KeyListenAddr)
	}
	if o.RateLimit.RequestsPerSecond < 0 || o.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidConfig)
	}
	switch o.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %s must be text or json, got %q", ErrInvalidConfig, KeyLogFormat, o.Log.Format)
	}
	return nil
}
