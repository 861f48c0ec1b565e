// Copyright 2023 The StarRocks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil holds the process-wide zap logger. The columnar core
// itself never logs; only the surrounding resource accounting (mpool leak
// and usage reports) goes through here.
package logutil

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the global logger. An empty Filename keeps logs on
// stderr; otherwise a size-rotated file sink is used.
type LogConfig struct {
	Level      string `toml:"level"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

var glogger atomic.Pointer[zap.Logger]

func init() {
	glogger.Store(newConsoleLogger(zapcore.InfoLevel))
}

func newConsoleLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return logger
}

// SetupLogger replaces the global logger according to cfg.
func SetupLogger(cfg *LogConfig) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.InfoLevel
		}
	}
	if cfg.Filename == "" {
		glogger.Store(newConsoleLogger(level))
		return
	}
	ws := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
	})
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, ws, level)
	glogger.Store(zap.New(core, zap.AddCallerSkip(1)))
}

// GetLogger returns the global logger.
func GetLogger() *zap.Logger {
	return glogger.Load()
}

func Debug(msg string, fields ...zap.Field) {
	glogger.Load().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	glogger.Load().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	glogger.Load().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	glogger.Load().Error(msg, fields...)
}

func Debugf(msg string, args ...any) {
	glogger.Load().Sugar().Debugf(msg, args...)
}

func Infof(msg string, args ...any) {
	glogger.Load().Sugar().Infof(msg, args...)
}

func Warnf(msg string, args ...any) {
	glogger.Load().Sugar().Warnf(msg, args...)
}

func Errorf(msg string, args ...any) {
	glogger.Load().Sugar().Errorf(msg, args...)
}
