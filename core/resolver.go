package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// errAttemptSettled cancels the attempt context after a terminal state has
// been published, so the watchdog can tell normal settlement from an
// external cancellation.
var errAttemptSettled = errors.New("core: attempt settled")

// CallFunc performs the remote step and classifies its outcome. The
// underlying I/O may outlive a cancelled attempt; its result is then
// discarded, not interrupted.
type CallFunc[R any] func(ctx context.Context) ApiResponse[R]

// SuccessFunc handles a successful response body. It owns whatever cache
// writes a success implies and must finalize the attempt through
// CompleteWithData, CompleteWithError, or FailRemote; the engine itself
// never touches storage.
type SuccessFunc[R, V any] func(ctx context.Context, body R, attempt *Resolver[R, V])

// CacheFetchFunc serves the cache-only path and must finalize the attempt.
type CacheFetchFunc[R, V any] func(ctx context.Context, attempt *Resolver[R, V])

// Resolver drives exactly one resolution attempt from Loading to a terminal
// state and publishes the lifecycle on a single ordered stream. It is a
// concrete type parameterized by response body R and view payload V; the
// customization points are injected function values, not subclasses.
type Resolver[R, V any] struct {
	id     uuid.UUID
	cfg    Config
	logger Logger

	networkAvailable bool
	fromCache        bool
	call             CallFunc[R]
	onSuccess        SuccessFunc[R, V]
	cacheFetch       CacheFetchFunc[R, V]

	mu       sync.Mutex
	started  bool
	terminal bool
	cancel   context.CancelCauseFunc
	states   chan State[V]
	done     chan struct{}
	attempt  *Attempt
}

type ResolverOption[R, V any] func(*Resolver[R, V])

func WithResolverLogger[R, V any](logger Logger) ResolverOption[R, V] {
	return func(r *Resolver[R, V]) {
		r.logger = logger
	}
}

func WithNetworkAvailable[R, V any](available bool) ResolverOption[R, V] {
	return func(r *Resolver[R, V]) {
		r.networkAvailable = available
	}
}

func WithCall[R, V any](call CallFunc[R]) ResolverOption[R, V] {
	return func(r *Resolver[R, V]) {
		r.call = call
	}
}

func WithOnSuccess[R, V any](handler SuccessFunc[R, V]) ResolverOption[R, V] {
	return func(r *Resolver[R, V]) {
		r.onSuccess = handler
	}
}

// WithCacheFetch switches the attempt to the cache-only path: no network
// check, no remote call, the fetch function finalizes from local reads.
func WithCacheFetch[R, V any](fetch CacheFetchFunc[R, V]) ResolverOption[R, V] {
	return func(r *Resolver[R, V]) {
		r.fromCache = fetch != nil
		r.cacheFetch = fetch
	}
}

func NewResolver[R, V any](cfg Config, opts ...ResolverOption[R, V]) (*Resolver[R, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Resolver[R, V]{
		id:     uuid.New(),
		cfg:    cfg,
		states: make(chan State[V], 4),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.fromCache {
		if r.cacheFetch == nil {
			return nil, errors.New("core: cache fetch step is required")
		}
	} else {
		if r.call == nil {
			return nil, errors.New("core: call step is required")
		}
		if r.onSuccess == nil {
			return nil, errors.New("core: success handler is required")
		}
	}
	return r, nil
}

func (r *Resolver[R, V]) ID() uuid.UUID {
	return r.id
}

// States is the attempt's published lifecycle. The channel delivers Loading
// first, then exactly one terminal state, then closes; delivery is
// single-threaded, observers never see overlapping notifications.
func (r *Resolver[R, V]) States() <-chan State[V] {
	return r.states
}

// Subscribe is the callback form of States: observer runs on a dedicated
// goroutine, once per published state, in publication order. The returned
// channel closes after the last invocation.
func (r *Resolver[R, V]) Subscribe(observer func(State[V])) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for state := range r.states {
			if observer != nil {
				observer(state)
			}
		}
	}()
	return finished
}

// Run starts the attempt and returns its cancellation handle. Run is
// idempotent: a second call returns the original handle without restarting.
func (r *Resolver[R, V]) Run(ctx context.Context) *Attempt {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancelCause(ctx)

	r.mu.Lock()
	if r.started {
		attempt := r.attempt
		r.mu.Unlock()
		cancel(nil)
		return attempt
	}
	r.started = true
	r.cancel = cancel
	r.attempt = &Attempt{id: r.id, cancel: cancel, done: r.done}
	attempt := r.attempt
	r.mu.Unlock()

	r.publish(LoadingState[V](true))

	switch {
	case r.fromCache:
		go r.runCacheFetch(runCtx)
		go r.watchdog(runCtx)
	case !r.networkAvailable:
		r.CompleteWithError(NewNotice(ErrorNoInternet, PresentationDialog))
	default:
		go r.runCall(runCtx)
		go r.watchdog(runCtx)
	}
	return attempt
}

func (r *Resolver[R, V]) runCall(ctx context.Context) {
	if r.cfg.SimulatedDelay > 0 {
		delay := time.NewTimer(r.cfg.SimulatedDelay)
		defer delay.Stop()
		select {
		case <-ctx.Done():
			return
		case <-delay.C:
		}
	}

	response := r.call(ctx)
	if ctx.Err() != nil {
		// Cancelled while the call was in flight. The work may have finished
		// anyway; the publication path is already severed, so drop it.
		r.logInfo(ctx, "discarding response for cancelled attempt", map[string]any{
			"attempt_id": r.id.String(),
			"kind":       string(response.Kind),
		})
		return
	}

	switch response.Kind {
	case ResponseSuccess:
		r.onSuccess(ctx, response.Body, r)
	case ResponseError:
		r.logError(ctx, "remote call failed", map[string]any{
			"attempt_id": r.id.String(),
			"message":    response.Message,
		})
		r.FailRemote(response.Message)
	case ResponseEmpty:
		r.CompleteWithError(NewNotice(ErrorEmptyResponse, PresentationDialog))
	default:
		r.CompleteWithError(NewNotice(ErrorUnknown, PresentationDialog))
	}
}

func (r *Resolver[R, V]) runCacheFetch(ctx context.Context) {
	r.cacheFetch(ctx, r)
}

// watchdog races the in-flight step against the shared attempt deadline. It
// is owned by its attempt and exits with it; there is no detached timer that
// can outlive the resolution.
func (r *Resolver[R, V]) watchdog(ctx context.Context) {
	timer := time.NewTimer(r.cfg.AttemptTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		cause := context.Cause(ctx)
		if errors.Is(cause, errAttemptSettled) {
			return
		}
		r.failCancelled(cause)
	case <-timer.C:
		r.logError(ctx, "attempt deadline exceeded", map[string]any{
			"attempt_id": r.id.String(),
			"timeout":    r.cfg.AttemptTimeout.String(),
		})
		if cancel := r.cancelFunc(); cancel != nil {
			cancel(ErrAttemptTimeout)
		}
		r.failCancelled(ErrAttemptTimeout)
	}
}

// FailRemote finalizes with a server-reported error message. Known
// connectivity signatures are rewritten to the fixed notice and downgraded
// from dialog to toast; anything else surfaces verbatim as a dialog.
func (r *Resolver[R, V]) FailRemote(message string) {
	msg := strings.TrimSpace(message)
	presentation := PresentationDialog
	if msg == "" {
		msg = ErrorUnknown
	} else if IsNetworkError(msg) {
		msg = ErrorCheckNetworkConnection
		presentation = PresentationToast
	}
	r.CompleteWithError(NewNotice(msg, presentation))
}

// failCancelled publishes the terminal state for an external cancellation or
// watchdog expiry. Cancellation is a background condition: it surfaces as a
// toast, never a blocking dialog.
func (r *Resolver[R, V]) failCancelled(cause error) {
	msg := ErrorUnknown
	if cause != nil && !errors.Is(cause, context.Canceled) && strings.TrimSpace(cause.Error()) != "" {
		msg = cause.Error()
	}
	r.CompleteWithError(NewNotice(msg, PresentationToast))
}

func (r *Resolver[R, V]) CompleteWithData(payload *V, notice *Notice) {
	r.finalize(DataState[V](payload, notice))
}

func (r *Resolver[R, V]) CompleteWithError(notice *Notice) {
	if notice == nil {
		notice = NewNotice(ErrorUnknown, PresentationToast)
	}
	r.finalize(ErrorState[V](notice))
}

func (r *Resolver[R, V]) publish(state State[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminal {
		return
	}
	r.states <- state
}

// finalize publishes the terminal state and closes the stream. Terminal is
// absorbing: finalizing an already-terminal attempt is a no-op, never an
// error, so racing completions (success handler vs watchdog) stay benign.
func (r *Resolver[R, V]) finalize(state State[V]) {
	r.mu.Lock()
	if r.terminal {
		r.mu.Unlock()
		return
	}
	r.terminal = true
	r.states <- state
	close(r.states)
	close(r.done)
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel(errAttemptSettled)
	}
}

func (r *Resolver[R, V]) cancelFunc() context.CancelCauseFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel
}

// Attempt is the opaque handle identifying one in-flight resolution. A
// repository retains at most one live handle; Cancel severs the superseded
// attempt's publication path, not merely its work.
type Attempt struct {
	id     uuid.UUID
	cancel context.CancelCauseFunc
	done   <-chan struct{}
}

func (a *Attempt) ID() uuid.UUID {
	if a == nil {
		return uuid.Nil
	}
	return a.id
}

func (a *Attempt) Cancel(cause error) {
	if a == nil || a.cancel == nil {
		return
	}
	if cause == nil {
		cause = ErrAttemptSuperseded
	}
	a.cancel(cause)
}

// Done is closed once the attempt has published its terminal state.
func (a *Attempt) Done() <-chan struct{} {
	if a == nil {
		return nil
	}
	return a.done
}
