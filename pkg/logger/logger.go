package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Level can be changed at runtime without rebuilding the logger
	Level = zap.NewAtomicLevel()
	Log   = zap.NewNop()
)

// Init builds the process logger. Unknown levels fall back to info.
func Init(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	Level.SetLevel(lvl)

	cfg := zap.NewProductionConfig()
	cfg.Level = Level
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig = zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "severity",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	l, buildErr := cfg.Build()
	if buildErr != nil {
		return nil, buildErr
	}

	Log = l
	zap.ReplaceGlobals(l)
	return l, nil
}
