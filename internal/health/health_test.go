package health

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func TestHandlerRoutes(t *testing.T) {
	h := NewHandler()
	tests := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/", http.StatusOK, "OK"},
		{http.MethodGet, "/ping", http.StatusOK, "pong"},
		{http.MethodGet, "/healthz", http.StatusOK, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("%s %s: code = %d, want %d", tt.method, tt.path, rec.Code, tt.code)
		}
		if tt.body != "" && rec.Body.String() != tt.body {
			t.Errorf("%s %s: body = %q, want %q", tt.method, tt.path, rec.Body.String(), tt.body)
		}
	}
}

func TestServerStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(ln.Addr().String(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewKeeperDisabledWithoutURL(t *testing.T) {
	k, err := NewKeeper("", time.Minute, clockwork.NewRealClock(), zap.NewNop())
	if err != nil || k != nil {
		t.Fatalf("got %v, %v; want nil, nil", k, err)
	}
	if _, err := NewKeeper("http://x", 0, clockwork.NewRealClock(), zap.NewNop()); err == nil {
		t.Fatal("zero interval accepted")
	}
}

func TestKeeperPing(t *testing.T) {
	var hits atomic.Int32
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		hits.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	k, err := NewKeeper(srv.URL+"/", time.Hour, clockwork.NewRealClock(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = k.Stop() }()

	if k.URL() != srv.URL+"/ping" {
		t.Errorf("url = %q", k.URL())
	}
	if !k.Ping(context.Background()) {
		t.Error("ping against healthy server failed")
	}
	status.Store(http.StatusBadGateway)
	if k.Ping(context.Background()) {
		t.Error("ping reported success on 502")
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d", hits.Load())
	}
}

func TestKeeperRunsOnSchedule(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	k, err := NewKeeper(srv.URL, 20*time.Millisecond, clockwork.NewRealClock(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	k.Start()
	defer func() { _ = k.Stop() }()

	deadline := time.Now().Add(5 * time.Second)
	for hits.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d pings in 5s", hits.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
