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
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/confdump/confdump/internal/apierror"
	confdumperrors "github.com/confdump/confdump/internal/errors"
)

// Outcome reports how a wrapped call terminated.
type Outcome int

const (
	// OutcomeSuccess means the wrapped operation returned a value.
	OutcomeSuccess Outcome = iota

	// OutcomeDenied means the failure was classified as non-retryable and
	// the call was abandoned after a single attempt.
	OutcomeDenied

	// OutcomeExhausted means every attempt failed with a transient error.
	OutcomeExhausted
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDenied:
		return "denied"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Policy configures the retry behavior for remote calls.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential growth of the wait.
	MaxBackoff time.Duration

	// Multiplier is the factor applied to the wait after each attempt.
	Multiplier float64

	// NonRetryable classifies errors that must never be retried. When nil,
	// permission errors (sentinel or inspected) are non-retryable.
	NonRetryable func(error) bool

	// SwallowExhausted converts the exhaustion error into a nil error with
	// the zero value, for callers that only want log-level reporting.
	SwallowExhausted bool
}

// DefaultPolicy returns the default retry configuration: five attempts with
// waits of 1s, 2s, 4s and 5s between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    5,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// backoff calculates the wait after the given zero-indexed attempt.
func (p Policy) backoff(attempt int) time.Duration {
	d := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	return time.Duration(d)
}

// nonRetryable reports whether err must not be retried.
func (p Policy) nonRetryable(err error) bool {
	if p.NonRetryable != nil {
		return p.NonRetryable(err)
	}
	return IsPermissionDenied(err)
}

// IsPermissionDenied is the default non-retryable classification: the
// sentinel error anywhere in the chain, or a message the API error
// inspector recognizes as an authorization failure.
func IsPermissionDenied(err error) bool {
	if errors.Is(err, confdumperrors.ErrPermissionDenied) {
		return true
	}
	return apierror.NewErrorChainInspector(apierror.NewInspector()).IsPermissionError(err)
}

// Do runs op under the policy and returns its value together with the
// terminal outcome.
//
// A non-retryable failure is logged at warning level and surfaces as the
// zero value with a nil error: the caller observes a success-shaped result
// and must consult the Outcome to tell the difference. Transient failures
// are retried with exponential backoff, logging a warning before each wait.
// When attempts are exhausted the final error is logged together with the
// attempt count and a stack trace, and returned to the caller unless the
// policy swallows it.
//
// The wait between attempts honors context cancellation; a canceled context
// terminates the call with the context error.
func Do[T any](ctx context.Context, p Policy, log zerolog.Logger, opName string, op func(context.Context) (T, error)) (T, Outcome, error) {
	var zero T
	var lastErr error

	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, OutcomeSuccess, nil
		}
		lastErr = err

		if p.nonRetryable(err) {
			log.Warn().
				Err(err).
				Str("op", opName).
				Msg("permission denied, not retrying")
			return zero, OutcomeDenied, nil
		}

		if ctx.Err() != nil {
			return zero, OutcomeExhausted, ctx.Err()
		}

		if attempt == p.MaxAttempts {
			break
		}

		wait := p.backoff(attempt - 1)
		log.Warn().
			Err(err).
			Str("op", opName).
			Int("attempt", attempt).
			Int("max_attempts", p.MaxAttempts).
			Dur("backoff", wait).
			Msg("transient failure, retrying")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, OutcomeExhausted, ctx.Err()
		}
	}

	log.Error().
		Err(lastErr).
		Str("op", opName).
		Int("attempts", p.MaxAttempts).
		Str("stack", string(debug.Stack())).
		Msg("operation failed after all attempts")

	if p.SwallowExhausted {
		return zero, OutcomeExhausted, nil
	}
	return zero, OutcomeExhausted, fmt.Errorf("%s failed after %d attempts: %w", opName, p.MaxAttempts, lastErr)
}
