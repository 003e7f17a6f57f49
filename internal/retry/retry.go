// Package retry re-runs remote classification calls with exponential backoff,
// honouring the wait a server asks for when it reports a model as loading or
// rate limited.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Action tells Do what to do with a failed attempt.
type Action int

const (
	Stop  Action = iota // permanent error, abort immediately
	Retry               // transient error, use normal backoff
	After               // server asked us to wait, use its hint or the longer backoff
)

// Hinter is implemented by errors that carry a server-suggested wait, such as
// an inference endpoint's estimated model load time or a Retry-After header.
type Hinter interface {
	RetryAfter() time.Duration
}

// Policy bounds the attempts and waits of Do.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	// LongBackoff is the wait for After when the error carries no hint.
	LongBackoff time.Duration
	// MaxBackoff caps every wait, hinted or not. Zero means no cap.
	MaxBackoff time.Duration
	Clock      clockwork.Clock
	OnRetry    func(attempt int, err error, backoff time.Duration)
}

// Classify maps an attempt error to an Action.
type Classify func(err error) Action

// Operation is one attempt.
type Operation[T any] func() (T, error)

// Do calls op until it succeeds, classify says Stop, attempts run out or ctx ends.
func Do[T any](ctx context.Context, p Policy, classify Classify, op Operation[T]) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		return zero, errors.New("retry: MaxAttempts must be >= 1")
	}
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	backoff := p.InitialBackoff
	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		action := classify(err)
		if action == Stop {
			return zero, &PermanentError{Err: err}
		}
		if attempt == p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		wait := p.wait(action, err, backoff)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		select {
		case <-clock.After(wait):
			backoff *= 2
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}

func (p Policy) wait(action Action, err error, backoff time.Duration) time.Duration {
	wait := backoff
	if action == After {
		var h Hinter
		if errors.As(err, &h) && h.RetryAfter() > 0 {
			wait = h.RetryAfter()
		} else if p.LongBackoff > wait {
			wait = p.LongBackoff
		}
	}
	if p.MaxBackoff > 0 && wait > p.MaxBackoff {
		wait = p.MaxBackoff
	}
	return wait
}

// PermanentError wraps an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
