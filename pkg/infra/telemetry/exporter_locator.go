package telemetry

import (
	"errors"
	"fmt"
)

var ErrUnknownExporter = errors.New("unknown exporter")

type ExporterLocator struct {
	exporters map[string]Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{
		exporters: make(map[string]Exporter),
	}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (p *ExporterLocator) GetExporter(cfg ExporterConfig) (Exporter, error) {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	return base.WithSettings(cfg.Settings)
}

// Build returns a configured exporter for every enabled entry.
func (p *ExporterLocator) Build(configs []ExporterConfig) ([]Exporter, error) {
	out := make([]Exporter, 0, len(configs))
	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		exp, err := p.GetExporter(cfg)
		if err != nil {
			for _, built := range out {
				built.Close()
			}
			return nil, fmt.Errorf("exporter %s: %w", cfg.Name, err)
		}
		out = append(out, exp)
	}
	return out, nil
}
