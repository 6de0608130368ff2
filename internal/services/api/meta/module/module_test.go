package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	modkit "linkmap/internal/modkit"
	"linkmap/internal/platform/metrics"
	phttp "linkmap/internal/platform/net/http"
	"linkmap/internal/platform/testkit"
)

func get(t *testing.T, m modkit.Module, path string) map[string]any {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("%s status = %d", path, rr.Code)
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return env.Data
}

func TestMeta_Endpoints(t *testing.T) {
	m := New(modkit.Deps{})

	if h := get(t, m, "/meta/health"); h["ok"] != true || h["service"] != "linkmap-api" {
		t.Fatalf("health = %v", h)
	}
	if v := get(t, m, "/meta/version"); v["version"] == "" {
		t.Fatalf("version = %v", v)
	}
	if s := get(t, m, "/meta/service"); s["name"] != "linkmap-api" {
		t.Fatalf("service = %v", s)
	}
	tbl := get(t, m, "/meta/tables")
	if st, _ := tbl["tables"].(map[string]any); st["countries"].(float64) < 1 {
		t.Fatalf("tables = %v", tbl)
	}
}

func TestMeta_Ready(t *testing.T) {
	if s := get(t, New(modkit.Deps{}), "/meta/ready"); s["status"] != "degraded" {
		t.Fatalf("ready without metrics = %v", s)
	}
	if s := get(t, New(modkit.Deps{Metrics: metrics.New()}), "/meta/ready"); s["status"] != "ok" {
		t.Fatalf("ready with metrics = %v", s)
	}
}

func TestMeta_Prefix(t *testing.T) {
	m := New(modkit.Deps{}, modkit.WithPrefix("info/"))
	if got := m.(*Module).Prefix(); got != "/info" {
		t.Fatalf("prefix = %q", got)
	}
	testkit.MustNotPanic(t, func() { get(t, m, "/info/health") })
}
