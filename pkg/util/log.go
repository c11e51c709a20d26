package util

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOptions configures the process logger.
type LogOptions struct {
	// File receives a copy of every entry when set. Parent directories are created.
	File string
	// Verbose enables debug events (order_rejected, http_request, ws_*).
	Verbose bool
	// Service is stamped on every entry.
	Service string
	// Console defaults to os.Stdout.
	Console io.Writer
}

// NewLogger builds the JSON event logger. Messages are event names
// ("order_placed"), so the message key is "event".
// The returned close func flushes the logger and releases the log file.
func NewLogger(opts LogOptions) (*zap.Logger, func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Verbose {
		level.SetLevel(zap.DebugLevel)
	}

	enc := zapcore.NewJSONEncoder(encoderConfig())
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(console), level)}

	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		file = f
		cores = append(cores, zapcore.NewCore(enc.Clone(), zapcore.AddSync(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Service != "" {
		logger = logger.With(zap.String("service", opts.Service))
	}

	closeFn := func() error {
		// Sync on a terminal stdout returns EINVAL; only the file matters.
		_ = logger.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return logger, closeFn, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "event"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
