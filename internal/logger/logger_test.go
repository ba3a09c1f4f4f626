package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		wantErr bool
	}{
		{env: "prod"},
		{env: "local"},
		{env: "docker", level: "debug"},
		{env: "cli", level: "warn"},
		{env: "staging", wantErr: true},
		{env: "local", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.level == "warn" && l.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info enabled despite warn override")
			}
		})
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger")
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx = With(ctx, zap.Int("view_id", 10))
	FromContext(ctx).Info("rendered")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["view_id"]; got != int64(10) {
		t.Errorf("view_id = %v, want 10", got)
	}
	if With(ctx) != ctx {
		t.Error("With without fields should return the same context")
	}
}
