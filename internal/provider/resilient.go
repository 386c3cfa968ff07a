package provider

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/avast/retry-go"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Resilient guards a backend with a circuit breaker and retries transient failures.
type Resilient struct {
	next     Provider
	breaker  *gobreaker.CircuitBreaker
	attempts uint
	delay    time.Duration
	logger   *zap.Logger
}

// ResilientOption customizes a Resilient wrapper.
type ResilientOption func(*Resilient)

// WithRetryDelay sets the base backoff delay between attempts.
func WithRetryDelay(d time.Duration) ResilientOption {
	return func(r *Resilient) {
		r.delay = d
	}
}

// NewResilient wraps next. retries is the number of extra attempts after the first.
func NewResilient(next Provider, retries uint, logger *zap.Logger, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		next:     next,
		attempts: retries + 1,
		delay:    500 * time.Millisecond,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not an upstream failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return r
}

// Name returns the wrapped provider name
func (r *Resilient) Name() string {
	return r.next.Name()
}

// GenerateContent calls the wrapped backend through the breaker, retrying transient errors
func (r *Resilient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var raw string
	err := retry.Do(
		func() error {
			out, err := r.breaker.Execute(func() (interface{}, error) {
				return r.next.GenerateContent(ctx, prompt)
			})
			if err != nil {
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					return retry.Unrecoverable(&Error{Provider: r.next.Name(), Err: err})
				}
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			raw = out.(string)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Info("retrying provider call",
				zap.String("provider", r.next.Name()),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// ParseResponse delegates to the wrapped backend
func (r *Resilient) ParseResponse(raw string) (map[string]any, error) {
	return r.next.ParseResponse(raw)
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
