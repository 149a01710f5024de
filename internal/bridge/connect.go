package bridge

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/brumelab/brume-core/internal/infrastructure/config"
	"github.com/brumelab/brume-core/internal/infrastructure/mqtt"
)

// connectMaxElapsed bounds the initial connect retry window. Once
// connected, the paho client handles reconnects on its own.
const connectMaxElapsed = 2 * time.Minute

// Connect establishes the broker connection, retrying transient failures
// with exponential backoff up to connectMaxElapsed.
//
// Parameters:
//   - cfg: Full configuration (MQTT section plus reconnect delays)
//   - logger: Optional logger for retry attempts
//
// Returns:
//   - *mqtt.Client: Connected client
//   - error: Last connect error when the retry window is exhausted
func Connect(cfg *config.Config, logger Logger) (*mqtt.Client, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.ReconnectInitialDelay()
	policy.MaxInterval = cfg.ReconnectMaxDelay()
	policy.MaxElapsedTime = connectMaxElapsed

	var client *mqtt.Client
	operation := func() error {
		var err error
		client, err = mqtt.Connect(cfg.MQTT)
		return err
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("broker connect failed, retrying",
			"error", err, "next_attempt_in", next.String())
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	return client, nil
}
