package planner

import "github.com/kilianp07/evswap/core/factory"

var sourceRegistry = factory.NewRegistry[Sources]()

// RegisterSource adds a data source factory identified by name.
func RegisterSource(name string, f factory.Factory[Sources]) error {
	return sourceRegistry.Register(name, f)
}

// NewSources creates the data source described by cfg.
func NewSources(cfg factory.ModuleConfig) (Sources, error) {
	return sourceRegistry.Create(cfg)
}

// SourceTypes lists the registered data source types.
func SourceTypes() []string { return sourceRegistry.Types() }
