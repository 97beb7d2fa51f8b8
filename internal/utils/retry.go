package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/klotho/internal/logger"
)

// RetryPolicy defines how a dependency is probed until it answers.
type RetryPolicy struct {
	TotalTimeout  time.Duration // Total time allowed for attempts (ex: 30s)
	InitialWait   time.Duration // Initial wait between retries (grows exponentially)
	MaxWait       time.Duration // Cap for the wait between retries
	PingTimeout   time.Duration // Timeout for each attempt
	WarnThreshold int           // Warn (instead of error) up to this many attempts
}

// Validate ensures all values are usable.
func (p RetryPolicy) Validate() error {
	if p.TotalTimeout <= 0 {
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", p.TotalTimeout)
	}
	if p.InitialWait <= 0 {
		return fmt.Errorf("RetryInterval must be > 0, got %v", p.InitialWait)
	}
	if p.MaxWait <= 0 {
		return fmt.Errorf("MaxWait must be > 0, got %v", p.MaxWait)
	}
	if p.PingTimeout <= 0 {
		return fmt.Errorf("PingTimeout must be > 0, got %v", p.PingTimeout)
	}
	if p.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", p.WarnThreshold)
	}
	return nil
}

// PingWithRetry calls ping until it succeeds or the policy's total timeout is
// exhausted, backing off exponentially between attempts. target only labels logs.
func PingWithRetry(ctx context.Context, target string, policy RetryPolicy, ping func(context.Context) error, log logger.Logger) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, policy.TotalTimeout)
	defer cancel()

	log.Info("connecting",
		logger.String("target", target),
		logger.Duration("timeout", policy.TotalTimeout))

	attempt := 0
	wait := policy.InitialWait
	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, policy.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			logSuccess(log, target, attempt, policy.TotalTimeout-timeLeft(ctx))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("dependency unavailable - failed to connect after timeout",
				logger.String("target", target),
				logger.Int("attempts", attempt),
				logger.Duration("timeout", policy.TotalTimeout),
				logger.Error(err))
			return fmt.Errorf("%s unavailable after %d attempts (timeout: %v): %w",
				target, attempt, policy.TotalTimeout, err)

		case <-timer.C:
			logRetry(log, target, attempt, timeLeft(ctx), wait, policy.WarnThreshold, err)
			wait *= 2
			if wait > policy.MaxWait {
				wait = policy.MaxWait
			}
		}
	}
}

func logSuccess(log logger.Logger, target string, attempts int, elapsed time.Duration) {
	if attempts > 1 {
		log.Warn("connected after retry",
			logger.String("target", target),
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	log.Info("connected", logger.String("target", target))
}

func logRetry(log logger.Logger, target string, attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	switch {
	case remaining < 10*time.Second:
		log.Error("still down - retrying but timeout approaching",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("remaining", remaining),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	case attempt <= warnThreshold:
		log.Warn("connection failed, retrying",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	default:
		log.Error("still unavailable - connection attempts failing",
			logger.String("target", target),
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", nextRetry),
			logger.Error(err))
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
