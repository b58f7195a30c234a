package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/aligner/component"
	"github.com/kbukum/aligner/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component manages a Client's lifecycle. The cache is optional: an
// unreachable server degrades the service instead of stopping it.
type Component struct {
	cfg     Config
	log     *logger.Logger
	client  *Client
	started bool
}

// NewComponent creates the client without dialing, so stores built on it
// can be wired before Start.
func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	cfg.ApplyDefaults()
	log = log.WithComponent("redis")
	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &Component{cfg: cfg, log: log, client: client}, nil
}

// Client returns the client.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start pings the server. A failed ping is logged and the component starts
// degraded.
func (c *Component) Start(ctx context.Context) error {
	c.started = true
	if err := c.client.Ping(ctx); err != nil {
		c.log.Warn("redis unreachable, word stream cache bypassed", logger.Fields(
			"addr", c.cfg.Addr,
			logger.FieldError, err.Error(),
		))
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.started = false
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.started {
		h.Status, h.Message = component.StatusUnhealthy, "not started"
		return h
	}
	if err := c.client.Ping(ctx); err != nil {
		h.Status, h.Message = component.StatusDegraded, err.Error()
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "cache",
		Details: fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize),
	}
}
