package http_test

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"linkmap/internal/core/gazetteer"
	"linkmap/internal/modkit/httpkit"
	perr "linkmap/internal/platform/errors"
	phttp "linkmap/internal/platform/net/http"
	"linkmap/internal/platform/testkit"
	connhttp "linkmap/internal/services/api/connections/http"
	svc "linkmap/internal/services/api/connections/service"
)

var export = testkit.CSV(
	"Notes:",
	"",
	"First Name,Last Name,Email Address,Company,Position",
	"Jane,Doe,jane@uni.edu.au,Acme,Engineer",
	`John,Roe,,Google,"Recruiter, Berlin"`,
	"Ann,Poe,,,",
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) httpkit.Router {
	t.Helper()
	cfg := svc.Config{MaxUploadBytes: 1 << 16, PreviewRows: 1, ChartTop: 10}
	r := phttp.AdaptChi(chi.NewRouter())
	connhttp.Register(r, svc.New(gazetteer.MustDefault(), nil, cfg), cfg)
	return r
}

func do(r httpkit.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	return env
}

func TestAnalyze_JSON(t *testing.T) {
	r := newRouter(t)
	rr := do(r, testkit.MultipartRequest(t, "/analyze", "file", "Connections.csv", export, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	env := decode(t, rr)

	var rep struct {
		File      string `json:"file"`
		Rows      int    `json:"rows"`
		Countries []struct {
			Country     string `json:"country"`
			Connections int    `json:"connections"`
		} `json:"countries"`
		Preview []json.RawMessage `json:"preview"`
	}
	if err := json.Unmarshal(env.Data, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.File != "Connections.csv" || rep.Rows != 3 || len(rep.Countries) != 3 || len(rep.Preview) != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestAnalyze_Downloads(t *testing.T) {
	r := newRouter(t)

	rr := do(r, testkit.MultipartRequest(t, "/analyze", "file", "My Connections.csv", export, map[string]string{"format": "csv"}))
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("csv status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	testkit.MustContain(t, rr.Header().Get("Content-Disposition"), `filename=my-connections.csv`)
	if rr.Header().Get("X-Run-Id") == "" {
		t.Fatal("missing X-Run-ID")
	}
	testkit.MustContain(t, rr.Body.String(), "Country,Connections\n")

	rr = do(r, testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"format": "png", "top": "5", "known": "true"}))
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("png status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if _, err := png.Decode(bytes.NewReader(rr.Body.Bytes())); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestAnalyze_RawBody(t *testing.T) {
	r := newRouter(t)
	for _, ct := range []string{"", "text/csv", "application/x-www-form-urlencoded", "application/octet-stream"} {
		t.Run(ct, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze?name=raw.csv&delimiter=comma&preview=0", bytes.NewReader(export))
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			rr := do(r, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
			}
			data := string(decode(t, rr).Data)
			testkit.MustContain(t, data, `"file":"raw.csv"`)
			testkit.MustContain(t, data, `"rows":3`)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze?name=raw.csv&format=csv", bytes.NewReader(export))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := do(r, req)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("query format: status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	testkit.MustContain(t, rr.Header().Get("Content-Disposition"), "filename=raw.csv")
}

func TestAnalyze_Errors(t *testing.T) {
	r := newRouter(t)
	cases := []struct {
		name   string
		req    *http.Request
		status int
		field  string
	}{
		{"missing file", testkit.MultipartRequest(t, "/analyze", "", "", nil, map[string]string{"format": "csv"}), http.StatusBadRequest, "file"},
		{"bad format", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"format": "gif"}), http.StatusBadRequest, "format"},
		{"bad delimiter", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"delimiter": "colon"}), http.StatusBadRequest, "delimiter"},
		{"top out of range", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"top": "500"}), http.StatusBadRequest, "top"},
		{"top not a number", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"top": "ten"}), http.StatusBadRequest, "top"},
		{"bad known", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", export, map[string]string{"known": "maybe"}), http.StatusBadRequest, "known"},
		{"no header", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", []byte("a,b\n1,2\n"), nil), http.StatusBadRequest, ""},
		{"broken quotes", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", testkit.CSV("Location,Company", `"Sydney,Acme`, "x,y"), nil), http.StatusUnprocessableEntity, ""},
		{"legacy xls", testkit.MultipartRequest(t, "/analyze", "file", "c.xls", append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, 0, 0, 0), nil), http.StatusUnsupportedMediaType, ""},
		{"too large", testkit.MultipartRequest(t, "/analyze", "file", "c.csv", bytes.Repeat([]byte("a"), 1<<16+1), nil), http.StatusRequestEntityTooLarge, "file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(r, tc.req)
			env := decode(t, rr)
			if rr.Code != tc.status || env.StatusCode != tc.status {
				t.Fatalf("status = %d env=%+v", rr.Code, env)
			}
			if tc.field != "" && env.Field != tc.field {
				t.Fatalf("field = %q, want %q (%s)", env.Field, tc.field, env.Error)
			}
		})
	}
}

func TestResolveAndTables(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(`{"company":"Atlassian"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := do(r, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve status = %d body=%s", rr.Code, rr.Body.String())
	}
	testkit.MustContain(t, string(decode(t, rr).Data), `"rule":"company_hq"`)

	req = httptest.NewRequest(http.MethodPost, "/resolve", strings.NewReader(`{"city":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if rr := do(r, req); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d", rr.Code)
	}

	rr = do(r, httptest.NewRequest(http.MethodGet, "/tables", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("tables status = %d", rr.Code)
	}
	testkit.MustContain(t, string(decode(t, rr).Data), `"header_markers"`)
}
