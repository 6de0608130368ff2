// Package swaggerkit serves the OpenAPI document and the Swagger UI
package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"linkmap/internal/platform/config"
	perr "linkmap/internal/platform/errors"
)

//go:embed openapi.json
var openapiDoc string

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return openapiDoc }

// Register adds a spec mutator, call it during bootstrap before Mount
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// serveDocJSON serves the OpenAPI document with servers, error schema and default error responses filled in
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := docReader()

		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, "/api/v1")

		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		for _, d := range defaultErrors {
			addDefaultResponse(spec, d)
		}

		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers makes sure the document is OAS 3.0 and has a servers array.
// The UI does not render 3.1 yet, so that is downconverted
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponseDefinition adds the error envelope schema if missing,
// kept in step with the runtime wire
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

type defaultError struct {
	status int
	code   perr.ErrorCode
	msg    string
	field  string
	write  bool // only added to operations with a request body
}

// defaultErrors are injected into every operation that does not document them
var defaultErrors = []defaultError{
	{status: http.StatusBadRequest, code: perr.ErrorCodeValidation, msg: "format must be one of [json csv xlsx png]", field: "format", write: true},
	{status: http.StatusRequestEntityTooLarge, code: perr.ErrorCodeTooLarge, msg: "upload is 12582912 bytes, limit is 10485760", field: "file", write: true},
	{status: http.StatusUnprocessableEntity, code: perr.ErrorCodeParse, msg: "malformed delimited content at line 7", write: true},
	{status: http.StatusInternalServerError, code: perr.ErrorCodePanic, msg: "internal error"},
}

// addDefaultResponse walks every operation and injects d if its status is absent
func addDefaultResponse(spec map[string]any, d defaultError) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	key := http.StatusText(d.status)
	example := map[string]any{
		"status_code": d.status,
		"status":      key,
		"code":        int(d.code),
		"error":       d.msg,
		"request_id":  "579f33bf50b1/abc-000001",
	}
	if d.field != "" {
		example["field"] = d.field
	}
	resp := map[string]any{
		"description": key,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	code := strconv.Itoa(d.status)
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for method, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			if d.write && method != "post" && method != "put" && method != "patch" {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[code]; !exists {
				responses[code] = resp
			}
		}
	}
}
