package metrics

// MultiSink fans out selection results to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSelection forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSelection(res SelectionResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordSelection(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordSourceLoad forwards source loads to the sinks supporting them.
func (m *MultiSink) RecordSourceLoad(ev SourceLoadEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SourceLoadRecorder); ok {
			if err := rec.RecordSourceLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
