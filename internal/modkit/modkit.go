package modkit

import (
	phttp "linkmap/internal/platform/net/http"
)

// Module is the surface every API module exposes to the composition root
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring (CLI, other modules)
	Ports() any
	// Name returns the module name used in logs and the registry
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
