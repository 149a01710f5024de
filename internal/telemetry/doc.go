// Package telemetry implements the ingestion pipeline for Brume Core.
//
// Every message delivered by the broker runs through four stages on the
// transport's receive goroutine:
//
//	┌──────────────┐   ┌──────────────┐   ┌──────────────┐   ┌──────────────┐
//	│ Topic Parser │──▶│   Resolver   │──▶│ State Cache  │──▶│   Snapshot   │
//	│  (topic.go)  │   │ (device pkg) │   │  (cache.go)  │   │    Writer    │
//	│              │   │              │   │              │   │  (writer.go) │
//	│ shape match  │   │ base topic / │   │ parse value, │   │ full state   │
//	│ against roots│   │ singleton    │   │ merge per key│   │ to SQLite +  │
//	│              │   │              │   │              │   │ Influx mirror│
//	└──────────────┘   └──────────────┘   └──────────────┘   └──────────────┘
//
// # Error handling
//
// All ingestion errors are local and non-fatal. Unrecognised topics are
// dropped silently (the bus carries other subsystems' traffic), resolution
// failures and rejected values are logged and counted, and persistence
// failures keep the in-memory state so the next successful write carries
// the full picture forward.
//
// # Topic shapes
//
//	acme/humidifier/hum-01/humidity   device scope, metric "humidity"
//	acme/humidifier/status            type scope, metric "status"
//
// Roots are exactly two segments and configured per deployment; anything
// else on the bus is not telemetry.
package telemetry
