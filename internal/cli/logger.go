package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
)

// newLogger builds a JSON logger writing to stderr and, when configured,
// to log.file as well.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "json"
	zc.DisableStacktrace = true
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		if err := ensureDir(filepath.Dir(cfg.File)); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		zc.OutputPaths = append(zc.OutputPaths, cfg.File)
	}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.Named("budgeteer"), nil
}
