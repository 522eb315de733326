// internal/workflow/engine.go
package workflow

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghosthand/internal/automation"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// Action is one selectable unit of a workflow: a named operation bound to
// the application that must hold focus, with a selection weight and the
// closure that performs it through the action primitives.
type Action struct {
	Name   string
	App    string
	Weight int
	Run    func(ctx context.Context) error
}

// Definition is a declarative workflow: an unordered bag of weighted actions
// plus pacing and termination bounds. One generic engine consumes these
// tables; there are no per-application engine subtypes.
type Definition struct {
	ID      string
	App     string
	Actions []Action
	// Pause bounds the randomized inter-action pause.
	Pause humanoid.DurationRange
	// MaxCycles and MaxDuration bound the run. At least one must be set; a
	// workflow is never allowed to run unboundedly.
	MaxCycles   int
	MaxDuration time.Duration
}

// Outcome is the terminal state of a workflow run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
)

// Gate is awaited between cycles; the session controller closes it on pause.
// A nil Gate never blocks.
type Gate interface {
	// Wait blocks while the gate is closed, returning early only when the
	// context is cancelled.
	Wait(ctx context.Context) error
}

// Engine runs workflow definitions. Stateless across runs; per-run state
// lives on the stack of Run.
type Engine struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// NewEngine creates a workflow engine. A nil rng gets a time-seeded source.
func NewEngine(rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng, logger: logger.Named("workflow")}
}

// selectAction picks the next action by weighted random draw, excluding the
// previous action unless it is the only eligible one.
func (e *Engine) selectAction(actions []Action, prev int) int {
	total := 0
	for i, a := range actions {
		if i == prev && len(actions) > 1 {
			continue
		}
		w := a.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}

	pick := e.rng.Intn(total)
	for i, a := range actions {
		if i == prev && len(actions) > 1 {
			continue
		}
		w := a.Weight
		if w <= 0 {
			w = 1
		}
		if pick < w {
			return i
		}
		pick -= w
	}
	// Unreachable with a consistent total; keep the compiler honest.
	return len(actions) - 1
}

// Run executes a definition until it completes its bounds or aborts.
// The cycle is Selecting -> Executing -> (Selecting | Completed | Aborted):
// cancellation and the pause gate are observed between actions, never in the
// middle of a trajectory (the fail-safe handles mid-flight aborts at the
// primitive level). Focus loss, fail-safe and cancellation abort the run
// cleanly; capability errors abort and propagate.
func (e *Engine) Run(ctx context.Context, def Definition, gate Gate) (Outcome, error) {
	if len(def.Actions) == 0 {
		return OutcomeCompleted, nil
	}

	maxCycles := def.MaxCycles
	if maxCycles <= 0 && def.MaxDuration <= 0 {
		// Refuse unbounded runs outright.
		maxCycles = 1
	}

	log := e.logger.With(zap.String("workflow", def.ID))
	log.Info("workflow starting",
		zap.Int("actions", len(def.Actions)),
		zap.Int("max_cycles", maxCycles),
		zap.Duration("max_duration", def.MaxDuration))

	deadline := time.Time{}
	if def.MaxDuration > 0 {
		deadline = time.Now().Add(def.MaxDuration)
	}

	prev := -1
	for cycle := 0; maxCycles <= 0 || cycle < maxCycles; cycle++ {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
		// Suspension point: stop signal and pause gate, checked every cycle.
		if err := ctx.Err(); err != nil {
			log.Info("workflow aborted", zap.String("reason", "cancelled"))
			return OutcomeAborted, nil
		}
		if gate != nil {
			if err := gate.Wait(ctx); err != nil {
				log.Info("workflow aborted", zap.String("reason", "cancelled while paused"))
				return OutcomeAborted, nil
			}
		}

		idx := e.selectAction(def.Actions, prev)
		action := def.Actions[idx]
		prev = idx

		log.Debug("executing action", zap.String("action", action.Name), zap.Int("cycle", cycle))
		if err := action.Run(ctx); err != nil {
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				log.Info("workflow aborted", zap.String("reason", "cancelled"))
				return OutcomeAborted, nil
			case errors.Is(err, automation.ErrFailsafe):
				log.Warn("workflow aborted", zap.String("reason", "failsafe"))
				return OutcomeAborted, nil
			case errors.Is(err, automation.ErrFocusLost):
				log.Warn("workflow aborted",
					zap.String("reason", "focus lost"),
					zap.String("action", action.Name))
				return OutcomeAborted, nil
			default:
				// Capability failure: fatal to this run, surfaced upward.
				log.Error("workflow aborted",
					zap.String("action", action.Name),
					zap.Error(err))
				return OutcomeAborted, err
			}
		}

		// Randomized pause between Executing and the next Selecting.
		if pause := e.drawPause(def.Pause); pause > 0 {
			t := time.NewTimer(pause)
			select {
			case <-ctx.Done():
				t.Stop()
				log.Info("workflow aborted", zap.String("reason", "cancelled"))
				return OutcomeAborted, nil
			case <-t.C:
			}
		}
	}

	log.Info("workflow completed")
	return OutcomeCompleted, nil
}

func (e *Engine) drawPause(r humanoid.DurationRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(e.rng.Int63n(int64(r.Max-r.Min)))
}
