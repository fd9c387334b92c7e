package telemetry

// ExporterLocatorOption configures an ExporterLocator.
type ExporterLocatorOption func(*ExporterLocator)

// WithExporter registers an exporter with the given name.
func WithExporter(name string, exporter Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		if el.exporters == nil {
			el.exporters = make(map[string]Exporter)
		}
		el.exporters[name] = exporter
	}
}
