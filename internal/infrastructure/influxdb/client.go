package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/brumelab/brume-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds

	// msPerSecond converts the configured flush interval to the API unit.
	msPerSecond = 1000
)

// Client mirrors numeric device readings into InfluxDB.
//
// Writes go through the non-blocking batched write API: WriteDeviceMetric
// never blocks ingestion, and batch failures surface asynchronously on the
// SetOnError callback. All methods are safe for concurrent use.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	cfg      config.InfluxDBConfig

	mu        sync.Mutex
	connected bool
	onError   func(err error)
}

// Connect creates the client, verifies the server with a ping, and starts
// the async error drain.
//
// Parameters:
//   - cfg: The influxdb section of config.yaml
//
// Returns:
//   - *Client: Ready client
//   - error: ErrDisabled when the mirror is off, ErrConnectionFailed when
//     the server is unreachable or unhealthy
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- both values forced positive above
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*msPerSecond))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	c := &Client{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		cfg:       cfg,
		connected: true,
	}

	go c.drainWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// drainWriteErrors forwards async batch errors to the registered callback.
// The channel closes when the client does.
func (c *Client) drainWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		c.mu.Lock()
		callback := c.onError
		c.mu.Unlock()

		if callback != nil {
			callback(err)
		}
	}
}

// WriteDeviceMetric queues one numeric reading for the mirror.
//
// The point lands in the device_reading measurement, tagged with the
// device id and carrying the value in a field named after the metric. A
// disconnected client drops the point silently; the SQLite snapshot is the
// canonical record.
//
// Parameters:
//   - deviceID: Device the reading belongs to
//   - metric: Metric name, e.g. "humidity" or "power_level"
//   - value: Numeric reading
func (c *Client) WriteDeviceMetric(deviceID string, metric string, value float64) {
	if !c.isConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		"device_reading",
		map[string]string{"device_id": deviceID},
		map[string]interface{}{metric: value},
		time.Now(),
	))
}

// Close flushes pending points and shuts the client down.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.writeAPI.Flush()
	c.client.Close()

	return nil
}

// HealthCheck pings the server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.isConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check failed: server not healthy")
	}

	return nil
}

func (c *Client) isConnected() bool {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	return connected
}

// SetOnError registers a callback for asynchronous batch write failures.
// Without one, failed batches are dropped.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	c.onError = callback
	c.mu.Unlock()
}
