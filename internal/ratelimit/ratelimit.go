// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ratelimit throttles message sends on the client side. The backend
// enforces its own quotas; this mirror keeps the client from ever getting
// there, so the user sees a gentle local notice instead of an HTTP 429
// turning into a retry loop.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default send quotas, matching the backend.
const (
	defaultPerMinute = 10
	defaultPerHour   = 50
)

// Limiter enforces two sliding windows at once. A send is allowed only when
// both windows have room. Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	minute *rate.Limiter
	hour   *rate.Limiter
}

// New returns a limiter with the given quotas. Zero or negative values fall
// back to the defaults.
func New(perMinute, perHour int) *Limiter {
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	if perHour <= 0 {
		perHour = defaultPerHour
	}
	return &Limiter{
		minute: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		hour:   rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour),
	}
}

// QuotaError reports which window is exhausted and when it next has room.
type QuotaError struct {
	Window     string
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("send quota reached (%s window), try again in %s",
		e.Window, e.RetryAfter.Round(time.Second))
}

// Allow consumes one send from both windows. On refusal, neither window is
// charged and the returned error says how long to wait.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	minRes := l.minute.ReserveN(now, 1)
	if d := minRes.DelayFrom(now); d > 0 {
		minRes.CancelAt(now)
		return &QuotaError{Window: "per-minute", RetryAfter: d}
	}
	hourRes := l.hour.ReserveN(now, 1)
	if d := hourRes.DelayFrom(now); d > 0 {
		hourRes.CancelAt(now)
		minRes.CancelAt(now)
		return &QuotaError{Window: "per-hour", RetryAfter: d}
	}
	return nil
}
