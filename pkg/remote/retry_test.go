package remote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-licensekit/pkg/remote"
)

func TestPolicyStopsAfterMaxAttempts(t *testing.T) {
	policy := remote.Policy{MaxAttempts: 3}
	calls := 0
	wantErr := errors.New("remote is down")

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Do() = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestPolicyStopsOnSuccess(t *testing.T) {
	policy := remote.Policy{MaxAttempts: 5}
	calls := 0

	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do(): %v", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestPolicyZeroValueRunsOnce(t *testing.T) {
	var policy remote.Policy
	calls := 0

	_ = policy.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("nope")
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestPolicyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := remote.Policy{MaxAttempts: 3}
	err := policy.Do(ctx, func(context.Context) error {
		t.Fatal("fn should not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() = %v, want context.Canceled", err)
	}
}
