// Package logging builds the service's structured logger on log/slog.
//
// Every entry carries service and version fields; components derive their
// own child loggers with With("component", ...). Format (json/text), level,
// and destination come from the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("broker connected", "host", cfg.MQTT.Broker.Host)
//
//	bridgeLog := log.With("component", "bridge")
//
// Secrets, tokens, and passwords never go into log fields.
package logging
