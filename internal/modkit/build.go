package modkit

import (
	"net/http"

	phttp "linkmap/internal/platform/net/http"
)

// Built is the resolved option set a module reads in its constructor
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Subrouter is identity and Register is nil unless set via options;
	// a nil Register means the module uses its own endpoints
	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts over the module defaults name and prefix
func Build(name, prefix string, opts ...Option) Built {
	c := buildCfg{name: name, prefix: prefix}
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}
