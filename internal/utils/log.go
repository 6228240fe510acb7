package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDebugLogger returns a human readable logger writing to stderr, so it
// never mixes with the command output on stdout.
func NewDebugLogger(level string) (*zap.Logger, error) {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logConfig := &zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(l),
		Development:      true,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			NameKey:        "logger",
			TimeKey:        "ts",
			LevelKey:       "level",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}
	return logConfig.Build()
}
