package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/klotho/internal/logger"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		TotalTimeout:  500 * time.Millisecond,
		InitialWait:   5 * time.Millisecond,
		MaxWait:       20 * time.Millisecond,
		PingTimeout:   50 * time.Millisecond,
		WarnThreshold: 2,
	}
}

func TestPingWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	ping := func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	if err := PingWithRetry(context.Background(), "test", fastPolicy(), ping, logger.Nop()); err != nil {
		t.Fatalf("PingWithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("ping called %d times, want 3", calls)
	}
}

func TestPingWithRetryTimesOut(t *testing.T) {
	cause := errors.New("connection refused")
	policy := fastPolicy()
	policy.TotalTimeout = 60 * time.Millisecond

	err := PingWithRetry(context.Background(), "test", policy, func(context.Context) error {
		return cause
	}, logger.Nop())
	if !errors.Is(err, cause) {
		t.Fatalf("PingWithRetry() error = %v, want wrapping %v", err, cause)
	}
}

func TestRetryPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RetryPolicy)
		wantErr bool
	}{
		{name: "valid", mutate: func(*RetryPolicy) {}},
		{name: "zero total timeout", mutate: func(p *RetryPolicy) { p.TotalTimeout = 0 }, wantErr: true},
		{name: "zero initial wait", mutate: func(p *RetryPolicy) { p.InitialWait = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(p *RetryPolicy) { p.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(p *RetryPolicy) { p.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(p *RetryPolicy) { p.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fastPolicy()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
