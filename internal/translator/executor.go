package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/valpere/i18nsync/internal/chunker"
	"github.com/valpere/i18nsync/internal/placeholder"
	"github.com/valpere/i18nsync/internal/validator"
)

// LanguageChecker reports translated values that do not look like the
// target language.
type LanguageChecker interface {
	Check(items map[string]string, targetLang string) []validator.Mismatch
}

// Executor turns a Request into translated values: it masks protected
// content, splits the work into batches, retries transient failures, and
// enforces the glossary on the result.
type Executor struct {
	service  TranslationService
	policy   RetryPolicy
	sleep    SleepFunc
	maxChars int
	breaker  *gobreaker.CircuitBreaker
	checker  LanguageChecker
	logger   *zap.Logger
}

type Option func(*Executor)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Executor) { e.policy = p }
}

func WithSleep(sleep SleepFunc) Option {
	return func(e *Executor) { e.sleep = sleep }
}

// WithMaxChars sets the character budget of one batch; ≤0 means unlimited.
func WithMaxChars(n int) Option {
	return func(e *Executor) { e.maxChars = n }
}

func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(e *Executor) { e.breaker = cb }
}

func WithLanguageCheck(c LanguageChecker) Option {
	return func(e *Executor) { e.checker = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

func NewExecutor(service TranslationService, opts ...Option) *Executor {
	e := &Executor{
		service:  service,
		policy:   DefaultRetryPolicy(),
		sleep:    Sleep,
		maxChars: chunker.DefaultMaxChars,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.breaker == nil {
		e.breaker = NewBreaker(service.Name(), 5, e.logger)
	}
	return e
}

// NewBreaker opens after maxFailures consecutive batches failed by the
// service itself and lets a probe through after a minute. Unusable answers
// and rejected requests do not count, so one destination's bad content
// cannot block the others.
func NewBreaker(name string, maxFailures uint32, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return !serviceFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// serviceFailure reports whether err means the service is unhealthy:
// transport errors, 429 and 5xx.
func serviceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformed) || errors.Is(err, ErrConfig) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= http.StatusInternalServerError
	}
	return true
}

func (e *Executor) ServiceName() string {
	return e.service.Name()
}

// Translate returns a translation for every key of req.Items, or an error
// and no partial result.
func (e *Executor) Translate(ctx context.Context, req Request) (map[string]string, error) {
	result := make(map[string]string, len(req.Items))
	if len(req.Items) == 0 {
		return result, nil
	}

	masked, markers := placeholder.ProtectAll(req.Items)
	batches := chunker.Split(masked, e.maxChars)

	for i, keys := range batches {
		payload := NewPayload(req.SourceLang, req.TargetLang, chunker.Subset(masked, keys), req.Glossary)
		out, err := e.translateBatch(ctx, payload, markers)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		for k, v := range out {
			result[k] = v
		}
	}

	req.Glossary.ApplyAll(result)

	if e.checker != nil {
		for _, m := range e.checker.Check(result, req.TargetLang) {
			e.logger.Warn("translation may be in the wrong language",
				zap.String("key", m.Key),
				zap.String("expected", m.Expected),
				zap.String("detected", m.Detected))
		}
	}

	return result, nil
}

func (e *Executor) translateBatch(ctx context.Context, p Payload, markers placeholder.Set) (map[string]string, error) {
	res, err := e.breaker.Execute(func() (interface{}, error) {
		var out map[string]string
		err := e.policy.Do(ctx, e.sleep, func(attempt int) error {
			e.logger.Debug("sending batch",
				zap.String("service", e.service.Name()),
				zap.String("batch", describe(p)),
				zap.Int("attempt", attempt))

			got, err := e.service.Translate(ctx, p)
			if err != nil {
				return err
			}
			if err := sameKeys(p.Items, got); err != nil {
				return err
			}
			restored, err := markers.RestoreAll(got)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			out = restored
			return nil
		}, func(attempt int, wait time.Duration, err error) {
			e.logger.Warn("batch failed, retrying",
				zap.String("service", e.service.Name()),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		})
		return out, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, Permanent(fmt.Errorf("%s unavailable: %w", e.service.Name(), err))
		}
		return nil, err
	}
	return res.(map[string]string), nil
}

func sameKeys(want map[string]string, got map[string]string) error {
	var missing, extra []string
	for k := range want {
		if _, ok := got[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return malformed("key set differs (missing %v, unexpected %v)", missing, extra)
}
