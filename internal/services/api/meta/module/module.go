// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"net/http"
	"time"

	"linkmap/internal/core/version"
	modkit "linkmap/internal/modkit"
	"linkmap/internal/modkit/httpkit"
	perr "linkmap/internal/platform/errors"
	str "linkmap/internal/platform/strings"

	metahttp "linkmap/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps = deps.WithDefaults()
	b := modkit.Build("meta", "/meta", opts...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.startedAt,
			Tables:      deps.Tables,
			Checks:      m.checks(),
		})
		if external != nil {
			external(r)
		}
	}

	return m
}

func (m *Module) checks() []metahttp.Check {
	tables := metahttp.Check{Name: "tables", Fn: func(context.Context) error {
		if st := m.deps.Tables.Stats(); st.Countries == 0 {
			return perr.Unavailablef("no countries loaded")
		}
		return nil
	}}
	metrics := metahttp.Check{Name: "metrics"}
	if m.deps.Metrics != nil {
		metrics.Fn = func(context.Context) error {
			_, err := m.deps.Metrics.Registry().Gather()
			return err
		}
	}
	return []metahttp.Check{tables, metrics}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		m.register(m.subrouter(rr))
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
