package limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter giới hạn số request trong một cửa sổ trượt
type RateLimiter struct {
	requestTimes []time.Time
	maxRequests  int
	window       time.Duration
	pollInterval time.Duration
	now          func() time.Time
	mu           sync.Mutex
}

// NewRateLimiter allows maxRequests per second. maxRequests <= 0 disables limiting.
func NewRateLimiter(maxRequests int) *RateLimiter {
	return &RateLimiter{
		requestTimes: make([]time.Time, 0, max(maxRequests, 0)),
		maxRequests:  maxRequests,
		window:       time.Second,
		pollInterval: 20 * time.Millisecond,
		now:          time.Now,
	}
}

// Allow kiểm tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	if r.maxRequests <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	windowStart := now.Add(-r.window)

	// Xóa các request cũ hơn cửa sổ
	validTimes := r.requestTimes[:0]
	for _, t := range r.requestTimes {
		if t.After(windowStart) {
			validTimes = append(validTimes, t)
		}
	}
	r.requestTimes = validTimes

	if len(r.requestTimes) < r.maxRequests {
		r.requestTimes = append(r.requestTimes, now)
		return true
	}

	return false
}

// Wait blocks until a request slot is free or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.Allow() {
			return nil
		}
		timer := time.NewTimer(r.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
