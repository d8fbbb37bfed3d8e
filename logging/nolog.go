// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import "go.uber.org/zap"

var _ Logger = NoLog{}

// NoLog discards everything. Useful as a default for tests and for callers
// that don't care about diagnostics.
type NoLog struct{}

func (NoLog) Fatal(string, ...zap.Field) {}
func (NoLog) Error(string, ...zap.Field) {}
func (NoLog) Warn(string, ...zap.Field)  {}
func (NoLog) Info(string, ...zap.Field)  {}
func (NoLog) Debug(string, ...zap.Field) {}
func (NoLog) With(...zap.Field) Logger   { return NoLog{} }
