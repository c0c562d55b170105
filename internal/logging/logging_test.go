package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetupDevMode(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	SetupWriter(&buf, true)

	slog.Debug("test debug")
	slog.Info("test info")

	output := buf.String()
	if !bytes.Contains([]byte(output), []byte("test debug")) {
		t.Error("expected debug message visible in dev mode")
	}
	if !bytes.Contains([]byte(output), []byte("level=INFO")) {
		t.Error("expected text handler output in dev mode")
	}
}

func TestSetupProdMode(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	var buf bytes.Buffer
	SetupWriter(&buf, false)

	slog.Debug("hidden debug")
	slog.Info("prod test")

	if bytes.Contains(buf.Bytes(), []byte("hidden debug")) {
		t.Error("expected debug suppressed in prod mode")
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"prod test"`)) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestSetupDefaultsToStderr(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	// Just ensure no panic
	Setup(false)
	slog.Info("stderr test")
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestRequestLogger(t *testing.T) {
	buf := captureLogs(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("POST", "/predict", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if buf.Len() == 0 {
		t.Fatal("expected log output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("POST")) {
		t.Error("expected method in log")
	}
	if !bytes.Contains(buf.Bytes(), []byte("/predict")) {
		t.Error("expected path in log")
	}
}

func TestRequestLoggerSkipsNoisyPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"static", "/static/style.css"},
		{"health", "/health"},
		{"metrics", "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", tt.path, nil)
			rec := httptest.NewRecorder()
			RequestLogger(inner).ServeHTTP(rec, req)

			if buf.Len() > 0 {
				t.Errorf("expected no log for %s", tt.path)
			}
		})
	}
}

func TestRequestLoggerCapturesStatus(t *testing.T) {
	buf := captureLogs(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := RequestLogger(inner)

	req := httptest.NewRequest("GET", "/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !bytes.Contains(buf.Bytes(), []byte("404")) {
		t.Error("expected 404 status in log")
	}
	if !bytes.Contains(buf.Bytes(), []byte("level=WARN")) {
		t.Error("expected 4xx logged at warn")
	}
}

func TestRequestLoggerRecordsSizeAndHTMX(t *testing.T) {
	buf := captureLogs(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})

	req := httptest.NewRequest("POST", "/predict", nil)
	req.Header.Set("HX-Request", "true")
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	if !bytes.Contains(buf.Bytes(), []byte("bytes=5")) {
		t.Errorf("expected body size in log, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("htmx=true")) {
		t.Errorf("expected htmx flag in log, got %q", buf.String())
	}
}
