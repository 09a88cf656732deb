// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/moodboard/core/internal/metrics"
)

// GuardConfig tunes the rate limiter and circuit breaker for one provider.
type GuardConfig struct {
	Name             string
	RatePerSecond    float64       // 0 disables rate limiting
	Burst            int           // defaults to 1
	FailureThreshold uint32        // consecutive failures before opening, defaults to 5
	OpenTimeout      time.Duration // time spent open before probing, defaults to 30s
}

// Guard wraps provider calls with a rate limiter, a circuit breaker and
// request metrics. A nil *Guard runs calls unguarded.
type Guard struct {
	name    string
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
}

// NewGuard creates a guard for the named provider.
func NewGuard(cfg GuardConfig) *Guard {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}

	g := &Guard{name: cfg.Name}

	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("provider circuit breaker state change",
				"provider", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return g
}

// Run executes fn under g and records the outcome. Not-configured failures
// never reach the breaker; clients return them before calling Run.
func Run[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) ([]T, error)) Outcome[T] {
	if g == nil {
		items, err := fn(ctx)
		if err != nil {
			return Failure[T](err)
		}
		return Success(items)
	}

	start := time.Now()
	res, err := g.execute(ctx, func() (any, error) {
		return fn(ctx)
	})
	metrics.ProviderRequestDuration.WithLabelValues(g.name).Observe(time.Since(start).Seconds())

	if err != nil {
		Record(g.name, err, 0)
		return Failure[T](err)
	}

	items, _ := res.([]T)
	Record(g.name, nil, len(items))
	return Success(items)
}

func (g *Guard) execute(ctx context.Context, fn func() (any, error)) (any, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", ErrUnavailable, err)
		}
	}

	res, err := g.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, g.name, err)
	}
	return res, err
}

// Record counts one provider call outcome.
func Record(provider string, err error, items int) {
	outcome := Reason(err)
	if err == nil && items == 0 {
		outcome = "empty"
	}
	metrics.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
