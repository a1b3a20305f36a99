// Package metrics records run statistics in a private Prometheus registry
// and samples Go runtime memory usage around runs.
package metrics
