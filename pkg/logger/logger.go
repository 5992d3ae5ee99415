package logger

import "go.uber.org/zap"

// New builds the process logger. level is a zap level name ("debug",
// "info", ...); empty or unrecognized values fall back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			cfg.Level = lvl
		}
	}
	return cfg.Build()
}
