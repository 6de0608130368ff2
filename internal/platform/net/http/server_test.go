package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"linkmap/internal/platform/config"
	phttp "linkmap/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestNewServer_AddrFromConfig(t *testing.T) {
	t.Setenv("SRV_PORT", "4100")
	called := false
	srv := phttp.NewServer(config.New().Prefix("SRV_"), func(*chi.Mux) { called = true })
	if !called {
		t.Fatalf("option hook not invoked")
	}
	if srv.Addr() != ":4100" {
		t.Fatalf("addr = %q", srv.Addr())
	}
}

func TestServer_RunUntilCancelled(t *testing.T) {
	addr := freeAddr(t)
	t.Setenv("SRV_PORT", addr)

	srv := phttp.NewServer(config.New().Prefix("SRV_"))
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, time.Second) }()

	var body string
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/ping")
		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			body = string(b)
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if body != "pong" {
		cancel()
		t.Fatalf("server never answered, body=%q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
