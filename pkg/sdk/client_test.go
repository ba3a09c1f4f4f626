package gravityview

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithRedis("localhost:6379", "secret").apply(cfg)
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v, want [localhost:6379]", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	WithRedisCluster("a:6379", "b:6379").apply(cfg)
	if len(cfg.addrs) != 2 {
		t.Errorf("addrs = %v, want two seeds", cfg.addrs)
	}

	WithCredentials("app", "pw").apply(cfg)
	if cfg.username != "app" || cfg.password != "pw" {
		t.Errorf("credentials = (%q, %q)", cfg.username, cfg.password)
	}

	WithDB(3).apply(cfg)
	WithScanPageSize(50).apply(cfg)
	WithSieveCache(time.Minute).apply(cfg)
	if cfg.db != 3 || cfg.pageSize != 50 || cfg.sieveTTL != time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	if obs.sieveCacheCounter() != nil || obs.fallbackCounter() != nil {
		t.Error("nil observer returned counters")
	}
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search_fields.render", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search_fields.render", time.Now(), errors.New("fail"))

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search_fields.render", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search_fields.render", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if obs.sieveCacheCounter() == nil || obs.fallbackCounter() == nil {
		t.Error("expected counters when metrics are enabled")
	}
}

func TestObserver_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}

	first.fallbackCounter().Inc()
	second.fallbackCounter().Inc()
	if got := testutil.ToFloat64(first.fallbackCounter()); got != 2 {
		t.Errorf("shared fallback counter = %v, want 2", got)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs, err := newObserver(logger, nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("view.save", time.Now(), nil, "view_id", 10)
	obs.observe("view.save", time.Now(), errors.New("boom"), "view_id", 11)

	out := buf.String()
	for _, want := range []string{"op=view.save", "view_id=10", "level=WARN", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthStatus_OK(t *testing.T) {
	if !(HealthStatus{Status: "ok"}).OK() {
		t.Error("ok status not reported healthy")
	}
	if (HealthStatus{Status: "degraded"}).OK() {
		t.Error("degraded status reported healthy")
	}
}
