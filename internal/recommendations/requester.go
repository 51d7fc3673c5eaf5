package recommendations

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/llm"
	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/telemetry"
)

// State is the lifecycle of a single generation request.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Sleeper waits between attempts. Implementations must honour ctx.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper blocks on a real timer.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})

// RetryPolicy bounds the number of attempts and the backoff base.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// DefaultRetryPolicy is three attempts starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialDelay: time.Second}
}

// MaxRetryDelay caps a single backoff wait.
const MaxRetryDelay = 2 * time.Minute

// Delay returns the wait after the zero-based attempt: InitialDelay * 2^attempt,
// saturated at MaxRetryDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if p.InitialDelay <= 0 {
		return 0
	}
	delay := p.InitialDelay
	for i := 0; i < attempt; i++ {
		if delay >= MaxRetryDelay/2 {
			return MaxRetryDelay
		}
		delay *= 2
	}
	return min(delay, MaxRetryDelay)
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	return p
}

// Requester drives one generation request through its state machine.
// A Requester is not reused across requests.
type Requester struct {
	client   llm.Client
	provider string
	policy   RetryPolicy
	sleeper  Sleeper
	timeout  time.Duration

	state    State
	attempts int
	lastErr  error
}

// RequesterOption customises a Requester.
type RequesterOption func(*Requester)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) RequesterOption {
	return func(r *Requester) {
		r.policy = p
	}
}

// WithSleeper injects the backoff clock.
func WithSleeper(s Sleeper) RequesterOption {
	return func(r *Requester) {
		if s != nil {
			r.sleeper = s
		}
	}
}

// WithTimeout bounds the whole request including retries and backoff.
func WithTimeout(d time.Duration) RequesterOption {
	return func(r *Requester) {
		r.timeout = d
	}
}

// NewRequester builds a Requester in the Idle state.
func NewRequester(client llm.Client, provider string, opts ...RequesterOption) *Requester {
	r := &Requester{
		client:   client,
		provider: provider,
		policy:   DefaultRetryPolicy(),
		sleeper:  TimerSleeper,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.policy = r.policy.normalized()
	return r
}

// State returns the current lifecycle state.
func (r *Requester) State() State {
	return r.state
}

// Attempts returns how many calls were made to the service.
func (r *Requester) Attempts() int {
	return r.attempts
}

// Request sends the audit context and parses the reply into candidates.
// A reply that cannot be parsed yields a single fallback candidate.
func (r *Requester) Request(ctx context.Context, auditCtx audit.Context) (Candidates, error) {
	if r.state != StateIdle {
		return Candidates{}, fmt.Errorf("requester already used: state=%s", r.state)
	}
	if r.client == nil {
		r.transition(StateFailed)
		return Candidates{}, llm.MissingConfig(r.provider, "LLM_PROVIDER")
	}
	req, err := llm.BuildRecommendationPrompt(auditCtx)
	if err != nil {
		r.transition(StateFailed)
		return Candidates{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	r.transition(StateRequesting)
	defer func() {
		metrics.ObserveGenerationDuration(r.provider, time.Since(start))
		metrics.IncGenerationOutcome(r.provider, string(r.state))
	}()

	for attempt := 0; attempt < r.policy.MaxRetries; attempt++ {
		r.attempts++
		text, err := r.client.Complete(llm.WithAttempt(ctx, attempt+1), req)
		metrics.IncGenerationAttempt(r.provider, err == nil)
		if err == nil {
			r.transition(StateSucceeded)
			return r.parse(text, req.Hash()), nil
		}
		r.lastErr = err
		if !shouldRetry(ctx, err) {
			break
		}
		delay := r.policy.Delay(attempt)
		telemetry.Warn("generation.retry", map[string]any{
			"provider":   r.provider,
			"attempt":    attempt + 1,
			"delay_ms":   delay.Milliseconds(),
			"kind":       classifyError(err),
			"error":      sanitizeError(err),
			"promptHash": req.Hash()[:12],
		})
		if serr := r.sleeper.Sleep(ctx, delay); serr != nil {
			r.lastErr = serr
			break
		}
	}

	r.transition(StateFailed)
	return Candidates{}, fmt.Errorf("%w after %d attempts: %w", ErrGenerationFailed, r.attempts, r.lastErr)
}

func (r *Requester) parse(text, promptHash string) Candidates {
	parsed, err := parseResponse(text)
	if err != nil {
		metrics.IncFallback()
		telemetry.Warn("generation.parse_fallback", map[string]any{
			"provider":   r.provider,
			"error":      err.Error(),
			"length":     len(text),
			"promptHash": promptHash[:12],
		})
		return fallbackCandidates(text)
	}
	return parsed
}

func (r *Requester) transition(next State) {
	prev := r.state
	r.state = next
	telemetry.Info("status_transition", map[string]any{
		"component": "recommendation_requester",
		"provider":  r.provider,
		"from":      string(prev),
		"to":        string(next),
		"attempts":  r.attempts,
	})
}

func shouldRetry(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, llm.ErrNotConfigured) {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	return true
}

func classifyError(err error) string {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("status_%d", statusErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") {
		return "timeout"
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof") {
		return "transport"
	}
	return "service"
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
