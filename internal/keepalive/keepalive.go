// Package keepalive ping định kỳ URL public của service để host miễn phí không cho nó ngủ.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/log"
)

type Pinger struct {
	Logger   log.Logger
	url      string
	interval time.Duration
	client   *http.Client
}

func NewPinger(logger log.Logger, config *cfg.Config) (*Pinger, error) {
	interval := time.Duration(config.KeepAlive.IntervalMin) * time.Minute
	if interval <= 0 {
		interval = 14 * time.Minute
	}
	return &Pinger{
		Logger:   logger,
		url:      config.KeepAlive.Url,
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Run pings immediately and then once per interval until ctx is done.
// Without a URL it logs a warning and returns right away.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" {
		p.Logger.Warn(ctx, "Keep-alive URL not set. Keep-alive loop stopped.")
		return
	}

	p.Logger.Info(ctx, "Starting keep-alive loop for %s every %v", p.url, p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.ping(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.Logger.Error(ctx, "Keep-alive request error: %v", err)
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			p.Logger.Error(ctx, "Keep-alive exception: %v", err)
		}
		return
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		p.Logger.Info(ctx, "Keep-alive ping successful. Status: %d", resp.StatusCode)
	} else {
		p.Logger.Warn(ctx, "Keep-alive ping failed. Status: %d", resp.StatusCode)
	}
}
