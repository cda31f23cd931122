// Package tour runs guided walkthroughs: a fixed sequence of steps anchored
// to UI targets, navigated manually or on a timer, with completion tracked
// per tour in an injected StatusStore.
package tour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
)

// DefaultAutoPlayInterval is the auto-advance period when none is configured.
const DefaultAutoPlayInterval = 4 * time.Second

var (
	// ErrTourActive is returned by Start while the tour is already running.
	ErrTourActive = errors.New("tour: already running")
	// ErrAlreadySeen is returned by an automatic Start when the viewer has
	// already completed or dismissed the tour.
	ErrAlreadySeen = errors.New("tour: already seen")
)

// State is the lifecycle state of an Engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trigger tells how a run was started. Automatic runs honour and record
// dismissal; manual runs ignore the stored status when starting.
type Trigger int

const (
	TriggerManual Trigger = iota
	TriggerAuto
)

func (t Trigger) String() string {
	if t == TriggerAuto {
		return "auto"
	}
	return "manual"
}

// Element is an opaque handle to a resolved UI target.
type Element any

// Surface resolves step targets on the host UI. Implementations must not
// call back into the Engine.
type Surface interface {
	Query(selector string) (Element, bool)
	ScrollIntoView(el Element)
}

// Hooks are invoked after the engine state has changed, outside its lock.
// Any of them may be nil.
type Hooks struct {
	OnStart    func()
	OnStep     func(index int, step domain.TourStep)
	OnComplete func()
	OnCancel   func()
}

// Engine is a single-flight tour runner. It is safe for concurrent use.
type Engine struct {
	id       string
	steps    []domain.TourStep
	surface  Surface
	store    StatusStore
	hooks    Hooks
	clock    clockwork.Clock
	interval time.Duration
	log      *slog.Logger

	mu          sync.Mutex
	state       State
	trigger     Trigger
	current     int
	highlighted Element
	autoStop    chan struct{}
	layout      layout
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock driving auto-play.
func WithClock(c clockwork.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithAutoPlayInterval sets the auto-advance period. Non-positive values keep
// the default.
func WithAutoPlayInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h Hooks) Option { return func(e *Engine) { e.hooks = h } }

// WithLayout sets the panel and viewport sizes used for drag clamping.
func WithLayout(panel, viewport Size) Option {
	return func(e *Engine) { e.layout = newLayout(panel, viewport) }
}

// New creates an idle engine for the tour id. Steps are validated and
// copied. A nil store falls back to a fresh MemoryStore; a nil surface
// disables target resolution.
func New(log *slog.Logger, id string, steps []domain.TourStep, surface Surface, store StatusStore, opts ...Option) (*Engine, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("tour_id", "required")
	}
	if err := domain.ValidateTourSteps(steps); err != nil {
		return nil, err
	}
	if store == nil {
		store = NewMemoryStore()
	}

	e := &Engine{
		id:       id,
		steps:    append([]domain.TourStep(nil), steps...),
		surface:  surface,
		store:    store,
		clock:    clockwork.NewRealClock(),
		interval: DefaultAutoPlayInterval,
		log:      log.With("component", "tour", "tour_id", id),
		layout:   newLayout(Size{}, Size{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ID returns the tour identifier.
func (e *Engine) ID() string { return e.id }

// Steps returns a copy of the step list.
func (e *Engine) Steps() []domain.TourStep {
	return append([]domain.TourStep(nil), e.steps...)
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns the index of the displayed step.
func (e *Engine) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Step returns the displayed step; ok is false unless the tour is running.
func (e *Engine) Step() (domain.TourStep, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateRunning {
		return domain.TourStep{}, false
	}
	return e.steps[e.current], true
}

// Highlighted returns the element resolved for the most recent step whose
// target was found.
func (e *Engine) Highlighted() (Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highlighted, e.highlighted != nil
}

// AutoPlaying reports whether the auto-advance timer is active.
func (e *Engine) AutoPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.autoStop != nil
}

// Start opens the tour at step 0. Automatic starts are refused with
// ErrAlreadySeen once the viewer completed or dismissed the tour; a status
// lookup failure is logged and does not prevent the start.
func (e *Engine) Start(ctx context.Context, trigger Trigger) error {
	if e.State() == StateRunning {
		return ErrTourActive
	}

	if trigger == TriggerAuto {
		status, err := e.store.Get(ctx, e.id)
		if err != nil {
			e.log.WarnContext(ctx, "tour status lookup failed", slog.String("error", err.Error()))
		} else if status.Seen() {
			return ErrAlreadySeen
		}
	}

	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return ErrTourActive
	}
	e.state = StateRunning
	e.trigger = trigger
	e.current = 0
	e.highlighted = nil
	e.layout.reset()
	e.stopAutoLocked()
	e.resolveLocked()
	step := e.steps[0]
	e.mu.Unlock()

	e.log.InfoContext(ctx, "tour started", slog.String("trigger", trigger.String()))
	call(e.hooks.OnStart)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(0, step)
	}
	return nil
}

// Next advances one step, or completes the tour from the last step.
// Outside a running tour it does nothing.
func (e *Engine) Next(ctx context.Context) {
	e.advance(ctx, nil)
}

// Prev goes back one step; it does nothing on the first step or outside a
// running tour.
func (e *Engine) Prev() {
	e.mu.Lock()
	if e.state != StateRunning || e.current == 0 {
		e.mu.Unlock()
		return
	}
	e.current--
	e.resolveLocked()
	idx, step := e.current, e.steps[e.current]
	e.mu.Unlock()

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(idx, step)
	}
}

// Cancel closes a running tour without completing it. Automatic runs record
// the tour as dismissed.
func (e *Engine) Cancel(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.state = StateCancelled
	e.stopAutoLocked()
	trigger := e.trigger
	e.mu.Unlock()

	e.log.InfoContext(ctx, "tour cancelled", slog.String("trigger", trigger.String()))
	if trigger == TriggerAuto {
		e.persist(ctx, domain.TourStatusDismissed)
	}
	call(e.hooks.OnCancel)
}

// Skip is Cancel as offered by a step's skip control.
func (e *Engine) Skip(ctx context.Context) { e.Cancel(ctx) }

// Close is Cancel as offered by the panel's close control.
func (e *Engine) Close(ctx context.Context) { e.Cancel(ctx) }

// Reset returns a running tour to step 0, stops auto-play and puts the
// panel back at its default position.
func (e *Engine) Reset() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	e.stopAutoLocked()
	e.current = 0
	e.layout.reset()
	e.resolveLocked()
	step := e.steps[0]
	e.mu.Unlock()

	if e.hooks.OnStep != nil {
		e.hooks.OnStep(0, step)
	}
}

// ToggleAutoPlay starts or stops auto-advance and reports whether it is now
// on. Outside a running tour it does nothing and returns false.
func (e *Engine) ToggleAutoPlay(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return false
	}
	if e.autoStop != nil {
		e.stopAutoLocked()
		return false
	}

	stop := make(chan struct{})
	ticker := e.clock.NewTicker(e.interval)
	e.autoStop = stop
	tickCtx := context.WithoutCancel(ctx)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				e.advance(tickCtx, stop)
			}
		}
	}()
	return true
}

// Stop tears the engine down: auto-play is stopped and a running tour goes
// back to idle without callbacks or persistence.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopAutoLocked()
	if e.state == StateRunning {
		e.state = StateIdle
	}
}

// ResetCompletion forgets the stored status so the tour can auto-start again.
func (e *Engine) ResetCompletion(ctx context.Context) error {
	if err := e.store.Clear(ctx, e.id); err != nil {
		return fmt.Errorf("tour: reset completion: %w", err)
	}
	return nil
}

// advance implements Next. When tick is non-nil the call comes from the
// auto-play goroutine owning that stop channel and is ignored if auto-play
// has since been stopped or restarted.
func (e *Engine) advance(ctx context.Context, tick chan struct{}) {
	e.mu.Lock()
	if e.state != StateRunning || (tick != nil && e.autoStop != tick) {
		e.mu.Unlock()
		return
	}

	if e.current < len(e.steps)-1 {
		e.current++
		e.resolveLocked()
		idx, step := e.current, e.steps[e.current]
		e.mu.Unlock()

		if e.hooks.OnStep != nil {
			e.hooks.OnStep(idx, step)
		}
		return
	}

	e.state = StateCompleted
	e.stopAutoLocked()
	trigger := e.trigger
	e.mu.Unlock()

	e.log.InfoContext(ctx, "tour completed", slog.String("trigger", trigger.String()))
	e.persist(ctx, domain.TourStatusCompleted)
	call(e.hooks.OnComplete)
}

func (e *Engine) stopAutoLocked() {
	if e.autoStop != nil {
		close(e.autoStop)
		e.autoStop = nil
	}
}

// resolveLocked points the highlight at the current step's target. A target
// that cannot be found is logged and the previous highlight is kept.
func (e *Engine) resolveLocked() {
	step := e.steps[e.current]
	if e.surface == nil || step.Target == "" {
		return
	}

	el, ok := e.surface.Query(step.Target)
	if !ok || el == nil {
		e.log.Warn("tour target not found",
			slog.String("step_id", step.ID),
			slog.String("target", step.Target),
		)
		return
	}
	e.surface.ScrollIntoView(el)
	e.highlighted = el
}

func (e *Engine) persist(ctx context.Context, status domain.TourStatus) {
	if err := e.store.Set(ctx, e.id, status); err != nil {
		e.log.WarnContext(ctx, "tour status not saved",
			slog.String("status", status.String()),
			slog.String("error", err.Error()),
		)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
