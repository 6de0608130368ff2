package domain

import (
	"context"
	"io"

	"linkmap/internal/core/resolver"
)

// ServicePort defines the service contract for connections analysis
type ServicePort interface {
	Analyze(ctx context.Context, up Upload) (Report, error)
	Render(w io.Writer, rep Report, opts RenderOptions) error
	ResolveOne(ctx context.Context, in ResolveInput) (resolver.Resolution, error)
	Tables() TablesInfo
}
