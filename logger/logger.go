// Package logger bootstraps the process-wide structured logger: console
// output in debug mode, rotated JSON files in release mode.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the file sink used in release mode.
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o *Options) setDefaults() {
	if o.Dir == "" {
		o.Dir = "logs"
	}
	if o.Filename == "" {
		o.Filename = "folio.log"
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 50
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays == 0 {
		o.MaxAgeDays = 30
	}
}

// New creates a logger. mode "debug" logs readable console output to stdout
// at debug level; anything else logs JSON to a rotated file at info level,
// with errors mirrored to stderr.
func New(mode string, opts Options) *zap.Logger {
	opts.setDefaults()

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	if strings.EqualFold(mode, "debug") {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			zap.NewAtomicLevelAt(zap.DebugLevel),
		)
		return zap.New(core, zap.AddCaller())
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, opts.Filename),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	})
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, zap.NewAtomicLevelAt(zap.InfoLevel)),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(zap.ErrorLevel)),
	)
	return zap.New(core)
}
