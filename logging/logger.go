// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging provides the structured logger used across the module,
// a thin wrapper over go.uber.org/zap in the style of the surrounding
// server's logging subsystem.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface every component in this module
// depends on. Fields are attached with zap.Field constructors so call sites
// stay allocation-cheap when a level is disabled.
type Logger interface {
	Fatal(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)

	// With returns a Logger that always attaches the given fields.
	With(fields ...zap.Field) Logger
}

var _ Logger = (*zapLogger)(nil)

type zapLogger struct {
	inner *zap.Logger
}

// New returns a Logger writing NDJSON-style entries at or above level to w.
func New(level Level, w io.Writer) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), toZapLevel(level))
	return &zapLogger{inner: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case Fatal:
		return zapcore.FatalLevel
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	case Info:
		return zapcore.InfoLevel
	case Debug:
		return zapcore.DebugLevel
	default:
		return zapcore.FatalLevel + 1 // effectively Off
	}
}

func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.inner.Fatal(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.inner.Error(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.inner.Warn(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.inner.Info(msg, fields...) }
func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.inner.Debug(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{inner: l.inner.With(fields...)}
}
