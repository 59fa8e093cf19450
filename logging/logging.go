// File: logging/logging.go
// Author: momentics <momentics@gmail.com>

// Package logging builds the zap loggers used by lnet binaries. File
// output rotates through timberjack; console output goes to stdout.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/DeRuina/timberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at the given level, additionally writing to
// a rotated logfile when path is non-empty.
func New(level zapcore.Level, path string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level),
	}
	if path != "" {
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(fileWriter(path)), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func fileWriter(path string) io.Writer {
	return &timberjack.Logger{
		Filename:         path,
		MaxSize:          50, // megabytes
		MaxBackups:       7,
		MaxAge:           7, // days
		LocalTime:        true,
		RotationInterval: 24 * time.Hour,
	}
}
