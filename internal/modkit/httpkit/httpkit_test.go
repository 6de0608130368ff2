package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "linkmap/internal/platform/errors"
	phttp "linkmap/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func newRouter() Router { return phttp.AdaptChi(chi.NewRouter()) }

func serve(r Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, req)
	return rr
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	return env
}

func TestSugar_GetPostPostJSON(t *testing.T) {
	type in struct {
		Position string `json:"position" validate:"required"`
	}
	r := newRouter()
	Get(r, "/v", func(*http.Request) (any, error) { return "1.0", nil })
	Post(r, "/raw", func(*http.Request) (any, error) {
		return Download("text/csv; charset=utf-8", "out.csv", []byte("a,b\n")), nil
	})
	Post(r, "/fail", func(*http.Request) (any, error) { return nil, perr.TooLargef("too big") })
	PostJSON(r, "/json", func(_ *http.Request, v in) (any, error) { return v.Position, nil })

	if rr := serve(r, http.MethodGet, "/v", ""); rr.Code != 200 || envelope(t, rr).Data != "1.0" {
		t.Fatalf("GET /v: %d %s", rr.Code, rr.Body.String())
	}

	rr := serve(r, http.MethodPost, "/raw", "")
	if rr.Header().Get("Content-Disposition") == "" || rr.Body.String() != "a,b\n" {
		t.Fatalf("POST /raw: %v %q", rr.Header(), rr.Body.String())
	}

	if rr := serve(r, http.MethodPost, "/fail", ""); rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("POST /fail = %d", rr.Code)
	}

	if rr := serve(r, http.MethodPost, "/json", `{"position":"CTO, Sydney"}`); rr.Code != 200 {
		t.Fatalf("POST /json ok = %d %s", rr.Code, rr.Body.String())
	}
	if rr := serve(r, http.MethodPost, "/json", `{}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("POST /json invalid = %d", rr.Code)
	}
}

func TestMountUnderAndAPIV1(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "connections")
			next.ServeHTTP(w, r)
		})
	}
	r := newRouter()
	MountAPIV1(r, nil, func(api Router) {
		MountUnder(api, "/connections", []func(http.Handler) http.Handler{nil, tag}, func(sub Router) {
			Get(sub, "/tables", func(*http.Request) (any, error) { return "ok", nil })
		})
		Get(api, "/other", func(*http.Request) (any, error) { return "x", nil })
	})

	rr := serve(r, http.MethodGet, "/api/v1/connections/tables", "")
	if rr.Code != 200 || rr.Header().Get("X-Module") != "connections" {
		t.Fatalf("module route: %d %v", rr.Code, rr.Header())
	}
	rr = serve(r, http.MethodGet, "/api/v1/other", "")
	if rr.Code != 200 || rr.Header().Get("X-Module") != "" {
		t.Fatalf("module middleware leaked: %v", rr.Header())
	}
	if rr := serve(r, http.MethodGet, "/connections/tables", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("unversioned path = %d", rr.Code)
	}
}

func TestMountAPI_TrimsVersion(t *testing.T) {
	r := newRouter()
	MountAPI(r, "/v2/", nil, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})
	if rr := serve(r, http.MethodGet, "/api/v2/ping", ""); rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCommonStack(t *testing.T) {
	stack := CommonStack(StackOptions{Timeout: time.Second})
	if len(stack) == 0 {
		t.Fatalf("expected middleware")
	}
	var deadline bool
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
		w.WriteHeader(http.StatusNoContent)
	})
	var h http.Handler = final
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, HeartbeatPath, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("heartbeat = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusNoContent || !deadline {
		t.Fatalf("final handler: %d deadline=%v", rr.Code, deadline)
	}
}
