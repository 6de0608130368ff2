package module

import "linkmap/internal/services/api/connections/domain"

// Ports is the port set other composition roots (the CLI) pull from the module
type Ports struct {
	Analyzer domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
