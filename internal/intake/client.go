package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"freight-dispatch/internal/config"
	"freight-dispatch/internal/logger"
	pkgmqtt "freight-dispatch/pkg/mqtt"
)

// Client wires the extraction pipeline's MQTT topic into the draft
// processor.
type Client struct {
	cfg       *config.IntakeConfig
	client    *pkgmqtt.Client
	processor *Processor

	mu      sync.Mutex
	started bool
}

// NewClient builds a new MQTT client for draft intake.
func NewClient(cfg *config.IntakeConfig, processor *Processor) (*Client, error) {
	if cfg == nil || cfg.Broker == "" {
		return nil, errors.New("intake broker is not configured")
	}
	if processor == nil {
		return nil, errors.New("processor is required")
	}

	client := pkgmqtt.NewClient(&pkgmqtt.Config{
		Broker:               cfg.Broker,
		ClientID:             cfg.ClientID,
		Username:             cfg.Username,
		Password:             cfg.Password,
		CleanSession:         false,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})

	return &Client{
		cfg:       cfg,
		client:    client,
		processor: processor,
	}, nil
}

// Start establishes the MQTT connection and subscribes to the draft topic.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	if c.cfg.DraftTopic == "" {
		return errors.New("no draft topic configured for intake")
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect to intake broker: %w", err)
	}

	handler := func(topic string, payload []byte) {
		if err := c.processor.ProcessDraftMessage(ctx, payload); err != nil {
			logger.Warn("Dropped draft message",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
	}

	if err := c.client.Subscribe(c.cfg.DraftTopic, byte(c.cfg.QoS), handler); err != nil {
		c.client.Disconnect()
		return fmt.Errorf("subscribe failed for topic %s: %w", c.cfg.DraftTopic, err)
	}

	c.started = true
	logger.Info("Draft intake listening",
		zap.String("topic", c.cfg.DraftTopic),
	)
	return nil
}

// Stop unsubscribes and disconnects from the broker.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return
	}

	if err := c.client.Unsubscribe(c.cfg.DraftTopic); err != nil {
		logger.Warn("Failed to unsubscribe from draft topic", zap.Error(err))
	}
	c.client.Disconnect()
	c.started = false
}
