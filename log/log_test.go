//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package log_test

import (
	"testing"

	"github.com/edugrade/answer-eval/log"
)

func TestLog(t *testing.T) {
	original := log.Default
	defer func() { log.Default = original }()
	log.Default = &noopLogger{}
	log.Debug("test")
	log.Debugf("test")
	log.Info("test")
	log.Infof("test")
	log.Warn("test")
	log.Warnf("test")
	log.Error("test")
	log.Errorf("test")
	log.Fatal("test")
	log.Fatalf("test")
}

func TestSetLevel(t *testing.T) {
	for _, level := range []string{
		log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError, log.LevelFatal, "bogus",
	} {
		log.SetLevel(level)
	}
	log.SetLevel(log.LevelInfo)
}

type noopLogger struct{}

func (l *noopLogger) Debug(args ...any)                 {}
func (l *noopLogger) Debugf(format string, args ...any) {}
func (l *noopLogger) Info(args ...any)                  {}
func (l *noopLogger) Infof(format string, args ...any)  {}
func (l *noopLogger) Warn(args ...any)                  {}
func (l *noopLogger) Warnf(format string, args ...any)  {}
func (l *noopLogger) Error(args ...any)                 {}
func (l *noopLogger) Errorf(format string, args ...any) {}
func (l *noopLogger) Fatal(args ...any)                 {}
func (l *noopLogger) Fatalf(format string, args ...any) {}
