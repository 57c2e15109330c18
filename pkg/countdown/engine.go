package countdown

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// WarningThreshold is how close to zero a countdown is flagged for blinking
const WarningThreshold = 5 * time.Second

// ErrRunning is returned by Start when a countdown is already running
var ErrRunning = errors.New("countdown already running")

// State is the engine's running state
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// CountdownState is the state of one countdown cycle
type CountdownState struct {
	Running         bool
	InitialDuration time.Duration
	EndsAt          time.Time
	CycleID         string // new for every started cycle, including auto-restarts
}

// Display is what the UI renders for the countdown
type Display struct {
	Text     string  // MM:SS
	Progress float64 // percent, 0..100
	Warning  bool    // final seconds of a running countdown
}

// Evaluation is the result of one Evaluate call
type Evaluation struct {
	Display
	Running bool

	// Completed is set when this call detected expiry. CompletedCycleID is
	// the cycle that expired; the engine is already running the next one.
	Completed        bool
	CompletedCycleID string
}

// Engine is the countdown state machine. It never reads the clock; callers
// pass now to every time-dependent operation.
type Engine struct {
	minimum time.Duration
	state   CountdownState
	display Display
}

// NewEngine creates an idle engine. A minimum of zero or less falls back to
// MinimumDuration.
func NewEngine(minimum time.Duration) *Engine {
	if minimum <= 0 {
		minimum = MinimumDuration
	}
	return &Engine{
		minimum: minimum,
		display: Display{Text: FormatDuration(0)},
	}
}

// Minimum returns the shortest duration Start accepts
func (e *Engine) Minimum() time.Duration {
	return e.minimum
}

// State returns a copy of the current countdown state
func (e *Engine) State() CountdownState {
	return e.state
}

// Running reports whether a countdown is in progress
func (e *Engine) Running() bool {
	return e.state.Running
}

// Display returns the last computed display
func (e *Engine) Display() Display {
	return e.display
}

// Start begins a countdown of d from now
func (e *Engine) Start(d time.Duration, now time.Time) error {
	if e.state.Running {
		return ErrRunning
	}
	if d < e.minimum {
		return &InvalidDurationError{Duration: d, Minimum: e.minimum}
	}

	e.state = CountdownState{
		Running:         true,
		InitialDuration: d,
		EndsAt:          now.Add(d),
		CycleID:         uuid.New().String(),
	}
	e.display = Display{Text: FormatDuration(d)}
	return nil
}

// Stop freezes a running countdown and recomputes the idle display from
// input. Stopping an idle engine only refreshes the display.
func (e *Engine) Stop(input string) {
	e.state.Running = false
	e.refreshIdle(input)
}

// Preview recomputes the idle display from input; ignored while running
func (e *Engine) Preview(input string) {
	if e.state.Running {
		return
	}
	e.refreshIdle(input)
}

// refreshIdle shows a valid input, otherwise the last valid duration,
// otherwise 00:00.
func (e *Engine) refreshIdle(input string) {
	if d, err := ValidateDuration(input, e.minimum); err == nil {
		e.state.InitialDuration = d
		e.display = Display{Text: FormatDuration(d)}
		return
	}
	if e.state.InitialDuration > 0 {
		e.display = Display{Text: FormatDuration(e.state.InitialDuration)}
		return
	}
	e.display = Display{Text: FormatDuration(0)}
}

// Evaluate recomputes the display for now. On expiry the engine restarts
// itself with max(InitialDuration, minimum) from now and reports the
// completion.
func (e *Engine) Evaluate(now time.Time) Evaluation {
	if !e.state.Running {
		return Evaluation{Display: e.display}
	}

	remaining := e.state.EndsAt.Sub(now)
	if remaining <= 0 {
		e.display = Display{Text: FormatDuration(0), Progress: 100}
		completed := e.state.CycleID
		e.complete(now)

		return Evaluation{
			Display:          e.display,
			Running:          e.state.Running,
			Completed:        true,
			CompletedCycleID: completed,
		}
	}

	e.display = Display{
		Text:     FormatDuration(remaining),
		Progress: progress(remaining, e.state.InitialDuration),
		Warning:  remaining <= WarningThreshold,
	}
	return Evaluation{Display: e.display, Running: true}
}

func (e *Engine) complete(now time.Time) {
	next := e.state.InitialDuration
	if next < e.minimum {
		next = e.minimum
	}

	e.state.Running = false
	// Cannot fail: next >= minimum and the engine is idle.
	_ = e.Start(next, now)
}

func progress(remaining, initial time.Duration) float64 {
	if initial <= 0 {
		return 0
	}
	done := 1 - float64(remaining)/float64(initial)
	if done < 0 {
		done = 0
	}
	if done > 1 {
		done = 1
	}
	return done * 100
}
