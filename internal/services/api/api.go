// Package api composes the HTTP API from its modules
package api

import (
	"net/http"
	"time"

	"linkmap/internal/core/gazetteer"
	"linkmap/internal/platform/config"
	"linkmap/internal/platform/logger"
	"linkmap/internal/platform/metrics"
	phttp "linkmap/internal/platform/net/http"
	"linkmap/internal/platform/net/middleware"

	"linkmap/internal/modkit"
	"linkmap/internal/modkit/httpkit"
	"linkmap/internal/modkit/module"
	"linkmap/internal/modkit/swaggerkit"

	connmod "linkmap/internal/services/api/connections/module"
	metamod "linkmap/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf // root view, modules read their own prefixes
	Logger         *logger.Logger
	Tables         *gazetteer.Tables // nil loads the embedded tables
	Metrics        *metrics.Metrics  // nil disables /metrics
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
	Timeout        time.Duration
	Slow           time.Duration
}

// Mount mounts the API service onto the given router and returns the mounted modules
func Mount(r phttp.Router, opt Options) []module.Module {
	deps := modkit.Deps{
		Log:     opt.Logger,
		Cfg:     opt.Config,
		Tables:  opt.Tables,
		Metrics: opt.Metrics,
	}.WithDefaults()

	r.Use(middleware.Defaults()...)

	mods := []module.Module{
		metamod.New(deps),
		connmod.New(deps),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		Timeout:     opt.Timeout,
		Slow:        opt.Slow,
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/v1/meta/service", http.StatusFound)
	})

	deps.Log.Info().
		Strs("modules", module.Names()).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Bool("metrics", opt.Metrics != nil).
		Msg("api mounted")
	return mods
}
