// @title         linkmap API
// @version       0.1.0
// @description   Aggregates LinkedIn connections exports by country

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkmap/internal/core/gazetteer"
	"linkmap/internal/core/version"
	"linkmap/internal/platform/config"
	"linkmap/internal/platform/logger"
	"linkmap/internal/platform/metrics"
	phttp "linkmap/internal/platform/net/http"

	"linkmap/internal/services/api"
)

func main() {
	// root view for module config (LINKMAP_*), service view for HTTP (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()
	bi := version.Info()
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting " + version.Service)

	tables, err := gazetteer.Default()
	if err != nil {
		l.Fatal().Err(err).Msg("load location tables")
	}

	var m *metrics.Metrics
	if apiCfg.MayBool("METRICS", true) {
		m = metrics.New()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT and the *_TIMEOUT keys)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Logger:         l,
		Tables:         tables,
		Metrics:        m,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:        apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:           apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
	})

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
