// Package notify publishes best-effort supply-chain lifecycle events
// (stage setup, stage refresh) to NATS. Publishing never blocks a
// GetConfig request and connection failures are logged, not returned,
// since no caller depends on delivery succeeding.
package notify

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// Event is published as JSON on Subject whenever a supplier completes a
// stage setup or refresh.
type Event struct {
	Kind      string    `json:"kind"`
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
}

// Client publishes lifecycle events to NATS on a best-effort basis.
type Client struct {
	url     string
	subject string

	mu   sync.RWMutex
	conn *nats.Conn
}

// New creates a Client and attempts an initial connection. A failed
// initial connection is non-fatal; the client retries lazily on the
// next publish.
func New(url, subject string) *Client {
	c := &Client{url: url, subject: subject}
	if err := c.connect(); err != nil {
		slog.Warn("initial NATS connection failed, will retry on publish",
			logfields.URL(url), logfields.Error(err))
	}
	return c
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.IsConnected() {
		return nil
	}

	conn, err := nats.Connect(c.url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", logfields.URL(nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return err
	}

	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	return nil
}

func (c *Client) publish(kind, stage string) {
	if err := c.connect(); err != nil {
		slog.Warn("dropping notification, NATS unavailable",
			logfields.Kind(kind), logfields.Stage(stage), logfields.Error(err))
		return
	}

	data, err := json.Marshal(Event{Kind: kind, Stage: stage, Timestamp: time.Now()})
	if err != nil {
		slog.Error("failed to marshal notification event", logfields.Error(err))
		return
	}

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return
	}

	if err := conn.Publish(c.subject, data); err != nil {
		slog.Warn("failed to publish notification",
			logfields.Kind(kind), logfields.Stage(stage), logfields.Error(err))
	}
}

// NotifyStageSetup implements supply.Notifier. Publishing runs on its own
// goroutine so a slow connection attempt never delays the caller.
func (c *Client) NotifyStageSetup(stage string) {
	go c.publish("stage.setup", stage)
}

// NotifyStageRefreshed implements supply.Notifier. Publishing runs on its
// own goroutine so a slow connection attempt never delays the caller.
func (c *Client) NotifyStageRefreshed(stage string) {
	go c.publish("stage.refreshed", stage)
}

// Close releases the underlying NATS connection, if any.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
