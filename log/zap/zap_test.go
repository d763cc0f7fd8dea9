package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/swrcache"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Info("refresh done", nil)
	l.Error("cache write failed", swrcache.Fields{"err": errors.New("boom"), "request_id": "r1"})

	if logs.Len() != 2 {
		t.Fatalf("logs = %d", logs.Len())
	}
	e := logs.All()[1]
	if e.Level != zapcore.ErrorLevel || e.LoggerName != "swrcache" {
		t.Fatalf("entry = %+v", e.Entry)
	}
	ctx := e.ContextMap()
	if ctx["err"] != "boom" || ctx["request_id"] != "r1" {
		t.Fatalf("context = %v", ctx)
	}
}
