// Package module wires connections analysis into the API using modkit
package module

import (
	"net/http"

	modkit "linkmap/internal/modkit"
	"linkmap/internal/modkit/httpkit"
	"linkmap/internal/platform/net/middleware"
	str "linkmap/internal/platform/strings"
	connhttp "linkmap/internal/services/api/connections/http"
	connsvc "linkmap/internal/services/api/connections/service"
)

// multipart framing allowed on top of the file limit
const formOverhead = 1 << 20

// Module implements the connections module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *connsvc.Svc
}

// New constructs the connections module. Limits come from LINKMAP_* in deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps = deps.WithDefaults()
	b := modkit.Build("connections", "/connections", opts...)

	cfg := connsvc.FromConfig(deps.Cfg.Prefix("LINKMAP_"))
	svc := connsvc.New(deps.Tables, deps.Metrics, cfg)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       append([]func(http.Handler) http.Handler{middleware.BodyLimit(svc.Config().MaxUploadBytes + formOverhead)}, b.Mw...),
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Analyzer: svc}

	m.register = b.Register
	if m.register == nil {
		m.register = func(r httpkit.Router) { connhttp.Register(r, m.svc, m.svc.Config()) }
	}

	deps.Log.Debug().
		Str("module", m.name).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Int("max_rows", cfg.MaxRows).
		Msg("module ready")
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		m.register(m.subrouter(rr))
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
