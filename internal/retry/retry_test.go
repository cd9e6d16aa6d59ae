// Copyright 2025 Confdump Contributors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	confdumperrors "github.com/confdump/confdump/internal/errors"
)

// fastPolicy returns a policy with millisecond backoffs for tests.
func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDo_TransientRetry(t *testing.T) {
	tests := []struct {
		name             string
		maxFailures      int
		maxAttempts      int
		wantOutcome      Outcome
		wantErr          bool
		expectedAttempts int
	}{
		{
			name:             "succeeds immediately",
			maxFailures:      0,
			maxAttempts:      5,
			wantOutcome:      OutcomeSuccess,
			expectedAttempts: 1,
		},
		{
			name:             "succeeds after one retry",
			maxFailures:      1,
			maxAttempts:      5,
			wantOutcome:      OutcomeSuccess,
			expectedAttempts: 2,
		},
		{
			name:             "succeeds on the final attempt",
			maxFailures:      4,
			maxAttempts:      5,
			wantOutcome:      OutcomeSuccess,
			expectedAttempts: 5,
		},
		{
			name:             "exhausts all attempts",
			maxFailures:      10,
			maxAttempts:      5,
			wantOutcome:      OutcomeExhausted,
			wantErr:          true,
			expectedAttempts: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			op := func(ctx context.Context) (string, error) {
				attempts++
				if attempts <= tt.maxFailures {
					return "", errors.New("connection reset by peer")
				}
				return "ok", nil
			}

			v, outcome, err := Do(context.Background(), fastPolicy(tt.maxAttempts), zerolog.Nop(), "list_pages", op)

			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			if tt.wantErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if attempts != tt.expectedAttempts {
				t.Errorf("expected %d attempts, got %d", tt.expectedAttempts, attempts)
			}
			if tt.wantOutcome == OutcomeSuccess && v != "ok" {
				t.Errorf("value = %q, want %q", v, "ok")
			}
		})
	}
}

func TestDo_PermissionDeniedNeverRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"sentinel in chain", fmt.Errorf("list failed: %w", confdumperrors.ErrPermissionDenied)},
		{"api message", errors.New("403 Forbidden")},
		{"permission message", errors.New("user not permitted to view space")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			op := func(ctx context.Context) (int, error) {
				attempts++
				return 0, tt.err
			}

			v, outcome, err := Do(context.Background(), fastPolicy(5), zerolog.Nop(), "count_pages", op)

			if attempts != 1 {
				t.Errorf("expected exactly 1 attempt, got %d", attempts)
			}
			if outcome != OutcomeDenied {
				t.Errorf("outcome = %v, want %v", outcome, OutcomeDenied)
			}
			// Success-shaped failure: zero value, nil error.
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if v != 0 {
				t.Errorf("value = %d, want zero value", v)
			}
		})
	}
}

func TestDo_SwallowExhausted(t *testing.T) {
	p := fastPolicy(3)
	p.SwallowExhausted = true

	attempts := 0
	op := func(ctx context.Context) ([]string, error) {
		attempts++
		return nil, errors.New("dial tcp: connection refused")
	}

	v, outcome, err := Do(context.Background(), p, zerolog.Nop(), "list_pages", op)

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if outcome != OutcomeExhausted {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	if err != nil {
		t.Errorf("swallowed exhaustion should return nil error, got %v", err)
	}
	if v != nil {
		t.Errorf("value = %v, want nil", v)
	}
}

func TestDo_ExhaustionErrorWrapsOriginal(t *testing.T) {
	cause := fmt.Errorf("fetch: %w", confdumperrors.ErrNetworkFailure)
	op := func(ctx context.Context) (int, error) {
		return 0, cause
	}

	_, _, err := Do(context.Background(), fastPolicy(2), zerolog.Nop(), "count_pages", op)

	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, confdumperrors.ErrNetworkFailure) {
		t.Errorf("exhaustion error %v should wrap the original cause", err)
	}
	if !strings.Contains(err.Error(), "count_pages failed after 2 attempts") {
		t.Errorf("error %v should name the operation and attempt count", err)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	p := Policy{
		MaxAttempts:    5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		Multiplier:     2.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	attempts := 0
	op := func(ctx context.Context) (int, error) {
		attempts++
		return 0, errors.New("connection reset by peer")
	}

	start := time.Now()
	_, outcome, err := Do(ctx, p, zerolog.Nop(), "list_pages", op)
	duration := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline exceeded, got: %v", err)
	}
	if outcome != OutcomeExhausted {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeExhausted)
	}
	if duration > 200*time.Millisecond {
		t.Errorf("operation took too long: %v", duration)
	}
	if attempts > 2 {
		t.Errorf("too many attempts: %d", attempts)
	}
}

func TestDo_LogsBeforeEachSleep(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	op := func(ctx context.Context) (int, error) {
		return 0, errors.New("connection reset by peer")
	}

	_, _, _ = Do(context.Background(), fastPolicy(4), log, "list_pages", op)

	// Four attempts mean three waits, each preceded by a warning.
	if got := strings.Count(buf.String(), "transient failure, retrying"); got != 3 {
		t.Errorf("expected 3 retry warnings, got %d in %q", got, buf.String())
	}
	if got := strings.Count(buf.String(), "operation failed after all attempts"); got != 1 {
		t.Errorf("expected 1 exhaustion error log, got %d", got)
	}
	if !strings.Contains(buf.String(), `"attempts":4`) {
		t.Errorf("exhaustion log should carry the attempt count: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"stack"`) {
		t.Errorf("exhaustion log should carry a stack trace: %s", buf.String())
	}
}

func TestPolicy_Backoff(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second}, // capped
		{4, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := p.backoff(tt.attempt); got != tt.want {
				t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", p.MaxAttempts)
	}
	if p.InitialBackoff != time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", p.InitialBackoff)
	}
	if p.MaxBackoff != 5*time.Second {
		t.Errorf("MaxBackoff = %v, want 5s", p.MaxBackoff)
	}
}

func TestDo_CustomNonRetryablePredicate(t *testing.T) {
	p := fastPolicy(5)
	sentinel := errors.New("poison")
	p.NonRetryable = func(err error) bool { return errors.Is(err, sentinel) }

	attempts := 0
	op := func(ctx context.Context) (int, error) {
		attempts++
		return 0, sentinel
	}

	_, outcome, err := Do(context.Background(), p, zerolog.Nop(), "op", op)

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if outcome != OutcomeDenied || err != nil {
		t.Errorf("got (%v, %v), want (denied, nil)", outcome, err)
	}
}
