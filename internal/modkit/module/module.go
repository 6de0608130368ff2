// Package module holds the module contract plus port lookup and a bootstrap registry.
// It sits beside modkit so a module's own ports package can import it without a cycle
package module

import (
	phttp "linkmap/internal/platform/net/http"
)

// Module mirrors modkit.Module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
