// Package modkit provides module wiring and the shared deps handed to every module
package modkit

import (
	"linkmap/internal/core/gazetteer"
	"linkmap/internal/platform/config"
	"linkmap/internal/platform/logger"
	"linkmap/internal/platform/metrics"
)

// Deps holds process wide dependencies passed to modules
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	Tables  *gazetteer.Tables
	Metrics *metrics.Metrics // nil disables instrumentation
}

// WithDefaults fills the logger and the embedded tables when left nil, so tests
// and the CLI can start from a zero Deps
func (d Deps) WithDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.Get()
	}
	if d.Tables == nil {
		d.Tables = gazetteer.MustDefault()
	}
	return d
}
