package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// Policy configures the exponential backoff between attempts.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter is the randomization factor in [0,1].
	Jitter float64
}

// DefaultPolicy returns the policy used for connection attempts.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   surveyetl.DefaultRetryMaxAttempts,
		InitialDelay: surveyetl.DefaultRetryInitialDelay,
		MaxDelay:     surveyetl.DefaultRetryMaxDelay,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.Jitter
	b.MaxElapsedTime = 0
	b.Reset()

	var bo backoff.BackOff = b
	if p.MaxRetries >= 0 {
		bo = backoff.WithMaxRetries(b, uint64(p.MaxRetries))
	}
	return backoff.WithContext(bo, ctx)
}

// Executor orchestrates retry attempts with backoff and error classification.
// Safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier ErrorClassifier
	policy     Policy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor.
// Panics if classifier is nil.
func NewExecutor(classifier ErrorClassifier, policy Policy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	return &Executor{classifier: classifier, policy: policy}
}

// WithOnRetry returns a new Executor with the specified retry callback.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs the operation, retrying transient failures until the policy is exhausted.
// Returns nil on success, the first non-transient error, the last transient error,
// or the context error if ctx ends while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	attempt := 0
	op := func() error {
		err := operation(ctx)
		if err != nil && !e.classifier.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}
		attempt++
	}

	return backoff.RetryNotify(op, e.policy.backOff(ctx), notify)
}
