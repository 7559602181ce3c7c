// Package logging wraps a process-wide zap logger.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theirongolddev/bkcost/internal/config"
)

var (
	// Logger is the global structured logger. It discards everything until
	// Init is called.
	Logger = zap.NewNop()
	// Sugar is the printf-style view of Logger.
	Sugar = Logger.Sugar()
)

// Options controls logger construction.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Output io.Writer
}

// FromConfig converts the [log] config section.
func FromConfig(c config.LogConfig) Options {
	return Options{Level: c.Level, Format: c.Format}
}

// Init replaces the global logger. Unknown levels fall back to warn so
// regular CLI output stays clean.
func Init(opts Options) {
	Logger = New(opts)
	Sugar = Logger.Sugar()
}

// New builds a logger without touching the globals.
func New(opts Options) *zap.Logger {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		level = zapcore.WarnLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if opts.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger.Sync()
}
