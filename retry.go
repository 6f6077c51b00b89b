package mailer

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// RetryManager handles retry logic for failed operations.
type RetryManager struct {
	config RetryConfig
}

// NewRetryManager creates a new retry manager with the given configuration.
func NewRetryManager(config RetryConfig) *RetryManager {
	return &RetryManager{
		config: config,
	}
}

// Retry executes fn up to MaxRetries+1 times, backing off exponentially
// between attempts. Non-retryable errors terminate immediately; validation
// errors are never transient and never reach the backoff loop.
func (r *RetryManager) Retry(ctx context.Context, fn func() error) error {
	if !r.config.Enabled {
		return fn()
	}

	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !core.IsRetryable(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt == r.config.MaxRetries {
			break
		}

		delay := r.calculateDelay(attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// calculateDelay returns InitialDelay * Multiplier^attempt, capped at MaxDelay,
// with up to 10% jitter when enabled.
func (r *RetryManager) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt)))

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter {
		jitterRange := float64(delay) * 0.1
		maxJitter := int64(jitterRange)
		if maxJitter > 0 {
			jitterBig, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
			if err == nil {
				delay += time.Duration(jitterBig.Int64())
			}
		}
	}

	return delay
}

// RateLimiter is a token bucket shared across all concurrent dispatches of a
// process. It bounds outbound throughput to rate with bounded burst,
// independent of how many requests arrive. There is no FIFO fairness between
// waiters, only the aggregate ceiling.
type RateLimiter struct {
	mu     sync.Mutex
	rate   float64 // tokens added per second
	burst  float64
	tokens float64
	last   time.Time

	// now is replaceable so the bucket's bound can be driven by a simulated clock.
	now func() time.Time
}

// NewRateLimiter creates a full bucket with the given configuration.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		rate:   float64(config.Rate),
		burst:  float64(config.Burst),
		tokens: float64(config.Burst),
		now:    time.Now,
	}
	rl.last = rl.now()
	return rl
}

// refillLocked credits tokens for the time elapsed since the last refill.
// Callers must hold mu.
func (rl *RateLimiter) refillLocked() {
	now := rl.now()
	elapsed := now.Sub(rl.last).Seconds()
	if elapsed > 0 {
		rl.tokens = math.Min(rl.burst, rl.tokens+elapsed*rl.rate)
		rl.last = now
	}
}

// TryAcquire takes a permit without waiting.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Acquire blocks until a permit is available, the wait budget is exhausted,
// or ctx is canceled. A zero wait budget degrades to TryAcquire.
func (rl *RateLimiter) Acquire(ctx context.Context, wait time.Duration) error {
	deadline := rl.now().Add(wait)

	for {
		rl.mu.Lock()
		rl.refillLocked()
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		need := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
		rl.mu.Unlock()

		if rl.now().Add(need).After(deadline) {
			return NewRateLimitError("no send permit available within wait budget", need)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(need):
		}
	}
}
