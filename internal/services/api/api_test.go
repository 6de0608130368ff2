package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"linkmap/internal/platform/config"
	"linkmap/internal/platform/metrics"
	phttp "linkmap/internal/platform/net/http"
	"linkmap/internal/platform/testkit"
)

func newAPI(t *testing.T, opt Options) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), opt)
	return mux
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMount_Routes(t *testing.T) {
	h := newAPI(t, Options{Config: config.New(), Metrics: metrics.New(), EnableSwagger: true})

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/api/v1/meta/health", http.StatusOK},
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/meta/tables", http.StatusOK},
		{"/api/v1/connections/tables", http.StatusOK},
		{"/api/docs/doc.json", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/", http.StatusFound},
		{"/debug/pprof/", http.StatusNotFound},
	} {
		if rr := serve(h, httptest.NewRequest(http.MethodGet, tc.path, nil)); rr.Code != tc.status {
			t.Fatalf("GET %s = %d, want %d", tc.path, rr.Code, tc.status)
		}
	}
}

func TestMount_AnalyzeEndToEnd(t *testing.T) {
	m := metrics.New()
	h := newAPI(t, Options{Config: config.New(), Metrics: m})

	data := testkit.CSV("Notes", "", "First Name,Email Address,Position", "a,a@x.com.au,", "b,,Recruiter in Berlin")
	rr := serve(h, testkit.MultipartRequest(t, "/api/v1/connections/analyze", "file", "c.csv", data, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
	testkit.MustContain(t, rr.Body.String(), `"request_id":"`)
	testkit.MustContain(t, rr.Body.String(), `"country":"Germany"`)

	body := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String()
	testkit.MustContain(t, body, `linkmap_analyses_total{outcome="ok",source="csv"} 1`)
}

func TestMount_ErrorsUseEnvelope(t *testing.T) {
	h := newAPI(t, Options{Config: config.New()})
	rr := serve(h, testkit.MultipartRequest(t, "/api/v1/connections/analyze", "file", "c.csv", []byte("nothing here\n"), nil))
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), `"no header row found`) {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil)); rr.Code != http.StatusNotFound {
		t.Fatalf("metrics without registry = %d", rr.Code)
	}
}
