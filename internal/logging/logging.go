// Package logging builds the process logger. The TUI owns the terminal, so
// diagnostics go to a file (or nowhere when none is configured); nothing in
// this repo ever logs to stdout/stderr while the dashboard is up.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New opens a file-backed logger at path. An empty path yields a no-op
// logger; a path that cannot be opened does too, because a dashboard that
// cannot log must still start. level accepts the zap level names
// ("debug", "info", "warn", ...); empty or unrecognized means info.
func New(path, level string) *zap.Logger {
	path = strings.TrimSpace(path)
	if path == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zap.NewNop()
	}

	lvl := zapcore.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(f),
		lvl,
	)
	return zap.New(core)
}
