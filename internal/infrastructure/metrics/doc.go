// Package metrics provides Prometheus instrumentation for Brume Core.
//
// It defines the counter set for the ingestion and command pipelines and a
// small HTTP server exposing them at /metrics.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	counters := metrics.New(reg)
//	counters.MessagesReceived.Inc()
//
//	srv := metrics.NewServer(cfg.Metrics.Listen, reg)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
//
// The metrics listener is optional and disabled by default; the pipeline
// increments counters regardless, they are simply never scraped when the
// server is off.
package metrics
