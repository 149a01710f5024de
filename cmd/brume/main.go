// Brume Core - Telemetry Ingestion & Command Bridge
//
// This is the main entry point for the Brume Core service. Brume Core
// connects household devices (smart plugs, humidifiers) to the rest of
// the platform:
//   - Ingests device telemetry published over MQTT
//   - Merges partial metric updates into per-device state
//   - Records durable full-state snapshots
//   - Translates abstract user actions into device wire commands
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/brumelab/brume-core/migrations"

	"github.com/brumelab/brume-core/internal/bridge"
	"github.com/brumelab/brume-core/internal/device"
	"github.com/brumelab/brume-core/internal/infrastructure/config"
	"github.com/brumelab/brume-core/internal/infrastructure/database"
	"github.com/brumelab/brume-core/internal/infrastructure/influxdb"
	"github.com/brumelab/brume-core/internal/infrastructure/logging"
	"github.com/brumelab/brume-core/internal/infrastructure/metrics"
	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
	"github.com/brumelab/brume-core/internal/reading"
	"github.com/brumelab/brume-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Brume Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise device directory
	deviceRepo := device.NewSQLiteRepository(db.DB)
	directory := device.NewDirectory(deviceRepo)
	directory.SetLogger(log.With("component", "device"))

	if refreshErr := directory.Refresh(ctx); refreshErr != nil {
		return fmt.Errorf("loading device directory: %w", refreshErr)
	}
	devices, err := directory.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}
	log.Info("device directory initialised", "devices", len(devices))

	// Build the telemetry root list and the singleton policy table
	// (topic root -> the device type its type-wide messages belong to)
	roots := make([]string, 0, len(cfg.Telemetry.Roots))
	singletons := make(map[string]device.DeviceType)
	for _, r := range cfg.Telemetry.Roots {
		roots = append(roots, r.Root)
		if r.SingletonType != "" {
			singletons[r.Root] = device.DeviceType(r.SingletonType)
		}
	}
	resolver := device.NewResolver(directory, singletons)
	log.Info("telemetry roots configured", "roots", roots)

	// Reading store and retention pruning
	readingStore := reading.NewSQLiteStore(db.DB)
	pruneInterval := time.Duration(cfg.Readings.PruneInterval) * time.Hour
	pruner := reading.NewPruner(readingStore, cfg.ReadingRetention(), pruneInterval)
	pruner.SetLogger(log.With("component", "reading"))
	go pruner.Run(ctx)

	// Connect to InfluxDB (optional numeric metric mirror)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Pipeline counters and the optional metrics listener
	registry := prometheus.NewRegistry()
	counters := metrics.New(registry)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Listen, registry)
		go func() {
			if serveErr := metricsServer.Start(); serveErr != nil {
				log.Error("metrics server stopped", "error", serveErr)
			}
		}()
		defer func() {
			log.Info("stopping metrics server")
			if shutdownErr := metricsServer.Shutdown(context.Background()); shutdownErr != nil {
				log.Error("error stopping metrics server", "error", shutdownErr)
			}
		}()
		log.Info("metrics listener started", "listen", cfg.Metrics.Listen)
	} else {
		log.Info("metrics listener disabled")
	}

	// Snapshot writer persists merged state after every accepted update
	writer := telemetry.NewSnapshotWriter(readingStore)
	writer.SetLogger(log.With("component", "telemetry"))
	if influxClient != nil {
		writer.SetMirror(influxClient)
	}

	// Ingestion pipeline: parse -> resolve -> merge -> persist
	pipeline, err := telemetry.NewPipeline(telemetry.PipelineOptions{
		Parser:   telemetry.NewParser(roots),
		Resolver: resolver,
		Cache:    telemetry.NewStateCache(),
		Writer:   writer,
		Counters: counters,
		Logger:   log.With("component", "pipeline"),
	})
	if err != nil {
		return fmt.Errorf("creating telemetry pipeline: %w", err)
	}

	// Connect to the MQTT broker with bounded retry
	mqttClient, err := bridge.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Bridge: one wildcard subscription per telemetry root, inbound
	// messages routed into the pipeline
	br, err := bridge.New(bridge.Options{
		Transport: mqttClient,
		Sink:      pipeline,
		Roots:     roots,
		QoS:       byte(cfg.MQTT.QoS),
		Logger:    log.With("component", "bridge"),
	})
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}
	if startErr := br.Start(); startErr != nil {
		return fmt.Errorf("starting bridge: %w", startErr)
	}
	defer func() {
		log.Info("stopping bridge")
		if closeErr := br.Close(); closeErr != nil {
			log.Error("error closing bridge", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Bridge (stops inbound dispatch)
	// 2. MQTT
	// 3. Metrics server (if enabled)
	// 4. InfluxDB (if enabled)
	// 5. Database

	log.Info("Brume Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BRUME_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BRUME_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
