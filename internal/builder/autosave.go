package builder

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SaveState is the reconciler's feedback state for the editing UI.
type SaveState string

const (
	StateIdle   SaveState = "idle"
	StateSaving SaveState = "saving"
	StateSaved  SaveState = "saved"
	StateError  SaveState = "error"
)

const (
	defaultDebounce    = 800 * time.Millisecond
	defaultSavedWindow = 1200 * time.Millisecond
)

// ErrSaveInFlight is returned by Flush when a persist attempt is already
// running; only one persist is ever in flight for a reconciler.
var ErrSaveInFlight = errors.New("save already in flight")

// Persister performs the idempotent replace-survey upsert keyed by the
// draft's category and survey name.
type Persister interface {
	Replace(ctx context.Context, draft Draft) error
}

// Reconciler watches a draft survey, debounces edits and persists real
// changes. Edits within the quiet period reset the timer; an edit observed
// while a persist is in flight is picked up by a fresh debounce cycle once
// that call resolves, so writes for the same survey never race. A failed
// persist leaves the confirmed snapshot untouched and the pending draft in
// place, so the next edit or an explicit Flush retries the same delta.
type Reconciler struct {
	persister   Persister
	debounce    time.Duration
	savedWindow time.Duration
	onState     func(SaveState)
	states      chan SaveState

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	timer      *time.Timer
	confirmed  *Snapshot
	pending    Draft
	hasPending bool
	inFlight   bool
	dirty      bool
	closed     bool
	state      SaveState
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDebounce overrides the quiet period (reference: 800ms).
func WithDebounce(d time.Duration) Option {
	return func(r *Reconciler) { r.debounce = d }
}

// WithSavedWindow overrides how long the saved state is shown before
// auto-reverting to idle (reference: 1.2s).
func WithSavedWindow(d time.Duration) Option {
	return func(r *Reconciler) { r.savedWindow = d }
}

// WithStateFunc registers a callback invoked on every state transition.
// Transitions are delivered in order from a single goroutine; the callback
// runs outside the reconciler's lock and must not block.
func WithStateFunc(fn func(SaveState)) Option {
	return func(r *Reconciler) { r.onState = fn }
}

// WithConfirmed seeds the last-confirmed snapshot, e.g. when editing a
// survey freshly loaded from the server.
func WithConfirmed(s Snapshot) Option {
	return func(r *Reconciler) { r.confirmed = &s }
}

// NewReconciler creates a reconciler that persists through p.
func NewReconciler(p Persister, opts ...Option) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		persister:   p,
		debounce:    defaultDebounce,
		savedWindow: defaultSavedWindow,
		state:       StateIdle,
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.onState != nil {
		r.states = make(chan SaveState, 16)
		go func() {
			for s := range r.states {
				r.onState(s)
			}
		}()
	}
	return r
}

// Observe reports a change to the draft. Drafts whose normalized snapshot
// equals the last confirmed one schedule nothing, so re-renders that carry
// no semantic change never hit the network.
func (r *Reconciler) Observe(d Draft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	snap := NewSnapshot(d)
	if r.confirmed != nil && snap.Equal(*r.confirmed) {
		return
	}
	r.pending = d
	r.hasPending = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.fire)
}

// State returns the current feedback state.
func (r *Reconciler) State() SaveState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Confirmed returns the last successfully persisted snapshot.
func (r *Reconciler) Confirmed() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confirmed == nil {
		return Snapshot{}, false
	}
	return *r.confirmed, true
}

// Flush persists the pending draft immediately, bypassing the debounce.
// It is a no-op when nothing changed and returns ErrSaveInFlight when a
// persist attempt is already running.
func (r *Reconciler) Flush(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if r.inFlight {
		r.mu.Unlock()
		return ErrSaveInFlight
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	if !r.hasPending {
		r.mu.Unlock()
		return nil
	}
	d := r.pending
	snap := NewSnapshot(d)
	if r.confirmed != nil && snap.Equal(*r.confirmed) {
		r.hasPending = false
		r.mu.Unlock()
		return nil
	}
	r.inFlight = true
	r.setState(StateSaving)
	r.mu.Unlock()

	err := r.persister.Replace(ctx, d)
	r.finish(d, snap, err)
	return err
}

// Close cancels any pending debounce timer and abandons an in-flight
// persist; a result that lands afterwards is discarded.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.cancel()
	if r.states != nil {
		close(r.states)
	}
}

func (r *Reconciler) fire() {
	r.mu.Lock()
	if r.closed || !r.hasPending {
		r.mu.Unlock()
		return
	}
	if r.inFlight {
		// Captured by the next cycle once the current call resolves.
		r.dirty = true
		r.mu.Unlock()
		return
	}
	d := r.pending
	snap := NewSnapshot(d)
	if r.confirmed != nil && snap.Equal(*r.confirmed) {
		r.hasPending = false
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.setState(StateSaving)
	r.mu.Unlock()

	err := r.persister.Replace(r.ctx, d)
	r.finish(d, snap, err)
}

func (r *Reconciler) finish(d Draft, snap Snapshot, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = false
	if r.closed {
		return
	}
	if err != nil {
		r.setState(StateError)
	} else {
		r.confirmed = &snap
		if r.hasPending && NewSnapshot(r.pending).Equal(snap) {
			r.hasPending = false
		}
		r.setState(StateSaved)
		time.AfterFunc(r.savedWindow, r.revertSaved)
	}
	if r.dirty {
		r.dirty = false
		if r.hasPending {
			r.timer = time.AfterFunc(r.debounce, r.fire)
		}
	}
}

func (r *Reconciler) revertSaved() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state != StateSaved {
		return
	}
	r.setState(StateIdle)
}

// setState is called with the lock held. Transitions queue onto the state
// channel and reach the callback in order, so observers see the saving,
// saved and error states in the sequence they actually happened.
func (r *Reconciler) setState(s SaveState) {
	r.state = s
	if r.states != nil {
		r.states <- s
	}
}
