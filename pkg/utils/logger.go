package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger named after the binary. When debug is true it
// uses the development config (human-readable, debug level); otherwise the
// production config (JSON, info level) without stack traces.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.DisableStacktrace = true
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("busca"), nil
}
