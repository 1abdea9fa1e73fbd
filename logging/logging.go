// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package logging builds the structured loggers
// used by the viewer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the configuration of a logger.
type Config struct {
	// File is the path of the log file.
	// If empty,
	// logs are written to the standard error
	// in console format.
	File string `yaml:"file"`

	// Level is the minimum level
	// (debug, info, warn, error).
	Level string `yaml:"level"`

	// Rotation of the log file.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// Logger is a zap logger
// with the file writer it owns.
type Logger struct {
	*zap.Logger
	file io.Closer
}

// New returns a new logger.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	if cfg.File == "" {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		)
		return &Logger{Logger: zap.New(core)}, nil
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("on file %q: %v", cfg.File, err)
	}
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		level,
	)
	return &Logger{Logger: zap.New(core), file: w}, nil
}

// Nop returns a logger that discards all output.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Close flushes the logger
// and closes the log file.
func (l *Logger) Close() error {
	// sync on the standard error fails on some systems
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
