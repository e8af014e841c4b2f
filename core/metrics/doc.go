// Package metrics defines the sink contract for completed selections and
// data source loads. Implementations register by type name from
// infra/metrics and are combined with a MultiSink when several are
// configured.
package metrics
