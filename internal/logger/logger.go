// Package logger builds the zap logger used across the application.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, destination and encoding.
type Config struct {
	// Level is parsed with zapcore.ParseLevel; empty means warn.
	Level string
	// File is appended to; empty means stderr.
	File string
	// Production switches to JSON output.
	Production bool
}

// New builds a logger from c. The returned closer flushes and closes the file, if any.
func New(c Config) (*zap.Logger, func() error, error) {
	level := zapcore.WarnLevel
	if strings.TrimSpace(c.Level) != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parse log level %q", c.Level)
		}
		level = l
	}

	var encoder zapcore.Encoder
	if c.Production {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if c.File == "" {
			encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var (
		writer zapcore.WriteSyncer
		file   *os.File
	)
	if c.File == "" {
		writer = zapcore.Lock(os.Stderr)
	} else {
		if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log dir")
		}
		f, err := os.OpenFile(c.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open log file")
		}
		file = f
		writer = zapcore.Lock(f)
	}

	lg := zap.New(zapcore.NewCore(encoder, writer, level), zap.AddCaller())
	closer := func() error {
		_ = lg.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return lg, closer, nil
}
