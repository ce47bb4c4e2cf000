package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthPing reports reachability of the upstream API. Any HTTP response
// counts as reachable; only transport failures are unhealthy. The probe sends
// no query so it does not burn request quota on a keyed endpoint.
func (c *Client) HealthPing(ctx context.Context) error {
	if _, err := c.client.R().SetContext(ctx).Get("/"); err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	return nil
}

// CatalogHealthChecker monitors upstream catalog reachability.
type CatalogHealthChecker struct {
	client       *Client
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

func NewCatalogHealthChecker(client *Client, log zerolog.Logger, probeTimeout time.Duration) *CatalogHealthChecker {
	hc := &CatalogHealthChecker{
		client:       client,
		log:          log,
		probeTimeout: probeTimeout,
	}
	hc.healthy.Store(0) // start unhealthy until first successful probe
	return hc
}

// Name returns the checker name.
func (hc *CatalogHealthChecker) Name() string {
	return "catalog"
}

// IsHealthy returns the cached health status (non-blocking).
func (hc *CatalogHealthChecker) IsHealthy() bool {
	return hc.healthy.Load() == 1
}

// Start begins periodic health checking.
func (hc *CatalogHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if err := hc.client.HealthPing(checkCtx); err != nil {
			hc.log.Error().Stack().
				Str("checker", hc.Name()).
				Err(err).
				Msg("catalog health check failed")
			hc.healthy.Store(0)
			return
		}
		hc.healthy.Store(1)
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
