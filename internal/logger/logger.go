// Package logger builds the zap logger used by the dast commands.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// FilePath is the rotated JSON log file. Empty disables the file core.
	FilePath   string
	Production bool
	// Console receives human-readable logs. Nil means os.Stdout.
	Console io.Writer
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// New returns a logger writing JSON to a rotated file and to the console.
// Production consoles get JSON and skip debug entries.
func New(opts Options) *zap.Logger {
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig())

	var cores []zapcore.Core
	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zap.InfoLevel))
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	consoleLevel := zap.DebugLevel
	if opts.Production {
		consoleEncoder = jsonEncoder
		consoleLevel = zap.InfoLevel
	}
	cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(console)), consoleLevel))

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Named returns a child logger tagged with the module name.
func Named(l *zap.Logger, module string) *zap.Logger {
	return l.Named(module).With(zap.String("module", module))
}
