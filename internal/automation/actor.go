// internal/automation/actor.go
package automation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// Actor executes the atomic primitives workflows are built from: move and
// click, type text, wait, switch application, press a shortcut, scroll. Each
// primitive re-verifies focus before touching the target application, checks
// the fail-safe inside replay loops, and emits one structured log record.
//
// Trajectories and keystroke sequences are generated fresh per invocation
// and discarded afterwards; the Actor holds no state about the target
// application beyond what it queries each time.
type Actor struct {
	conductor Conductor
	gen       *humanoid.Generator
	failsafe  *Failsafe
	logger    *zap.Logger

	refocusRetries int
	refocusDelay   time.Duration
	wiggleRange    float64
}

// NewActor wires the primitives to a conductor and a generator.
func NewActor(c Conductor, gen *humanoid.Generator, safety config.SafetyConfig, input config.InputConfig, logger *zap.Logger) *Actor {
	return &Actor{
		conductor:      c,
		gen:            gen,
		failsafe:       NewFailsafe(safety),
		logger:         logger.Named("actor"),
		refocusRetries: safety.RefocusRetries,
		refocusDelay:   safety.RefocusDelay,
		wiggleRange:    input.WiggleRange,
	}
}

// sleep blocks the calling unit of work for d, or until the context is
// cancelled. This is the suspension point every delay in the core runs
// through.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ensureFocus is the FocusGuard: it re-queries the frontmost application
// before every primitive (never cached) and, when the target is not focused,
// attempts the configured number of refocus retries before giving up with
// ErrFocusLost. Zero retries means abort immediately.
func (a *Actor) ensureFocus(ctx context.Context, app string) error {
	for attempt := 0; ; attempt++ {
		focused, err := a.conductor.FocusedApp(ctx)
		if err != nil {
			return capErr(ctx, "FocusedApp", err)
		}
		if focused == app {
			return nil
		}
		if attempt >= a.refocusRetries {
			a.logger.Warn("focus guard tripped",
				zap.String("want", app),
				zap.String("focused", focused),
				zap.Int("attempts", attempt))
			return ErrFocusLost
		}
		if err := a.conductor.ActivateApp(ctx, app); err != nil {
			return capErr(ctx, "ActivateApp", err)
		}
		if err := sleep(ctx, a.refocusDelay); err != nil {
			return err
		}
	}
}

// replayTrajectory walks a trajectory through the conductor, honoring each
// step delay and consulting the fail-safe every step so an abort lands
// within a single step of the trigger.
func (a *Actor) replayTrajectory(ctx context.Context, traj humanoid.Trajectory) error {
	for _, step := range traj {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.failsafe.Check(ctx, a.conductor); err != nil {
			return err
		}
		if err := sleep(ctx, step.Delay); err != nil {
			return err
		}
		if err := a.conductor.MoveCursor(ctx, step.Pos); err != nil {
			return capErr(ctx, "MoveCursor", err)
		}
	}
	return nil
}

// MoveClick moves the pointer along a fresh human trajectory to target and
// clicks. The app must hold focus for the whole primitive.
func (a *Actor) MoveClick(ctx context.Context, app string, target humanoid.Vector2D) error {
	if err := a.ensureFocus(ctx, app); err != nil {
		return err
	}
	start, err := a.conductor.CursorPos(ctx)
	if err != nil {
		return capErr(ctx, "CursorPos", err)
	}

	traj := a.gen.Trajectory(start, target, humanoid.DurationRange{})
	if err := a.replayTrajectory(ctx, traj); err != nil {
		return err
	}
	if err := a.conductor.Click(ctx, target); err != nil {
		return capErr(ctx, "Click", err)
	}

	a.logger.Info("action executed",
		zap.String("action", "move_click"),
		zap.String("app", app),
		zap.Float64("x", target.X),
		zap.Float64("y", target.Y),
		zap.Int("steps", len(traj)))
	return nil
}

// TypeText generates and replays a keystroke sequence, typos and
// corrections included, into the focused application.
func (a *Actor) TypeText(ctx context.Context, app string, text string) error {
	if err := a.ensureFocus(ctx, app); err != nil {
		return err
	}

	events := a.gen.Keystrokes(text)
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.failsafe.Check(ctx, a.conductor); err != nil {
			return err
		}
		if err := sleep(ctx, ev.Delay); err != nil {
			return err
		}
		if err := a.conductor.SendKey(ctx, ev); err != nil {
			return capErr(ctx, "SendKey", err)
		}
	}

	a.logger.Info("action executed",
		zap.String("action", "type_text"),
		zap.String("app", app),
		zap.Int("chars", len(text)),
		zap.Int("keystrokes", len(events)))
	return nil
}

// Wait suspends for a random duration within bounds. It needs no focus; a
// human pausing does not care which window is frontmost.
func (a *Actor) Wait(ctx context.Context, bounds humanoid.DurationRange) error {
	d := bounds.Min
	if bounds.Max > bounds.Min {
		d = bounds.Min + time.Duration(a.gen.Rng().Int63n(int64(bounds.Max-bounds.Min)))
	}
	if err := sleep(ctx, d); err != nil {
		return err
	}
	a.logger.Debug("action executed",
		zap.String("action", "wait"),
		zap.Duration("duration", d))
	return nil
}

// SwitchApp activates the named application and waits for focus to settle.
func (a *Actor) SwitchApp(ctx context.Context, app string) error {
	if err := a.conductor.ActivateApp(ctx, app); err != nil {
		return capErr(ctx, "ActivateApp", err)
	}
	if err := sleep(ctx, a.refocusDelay); err != nil {
		return err
	}
	focused, err := a.conductor.FocusedApp(ctx)
	if err != nil {
		return capErr(ctx, "FocusedApp", err)
	}
	if focused != app {
		return ErrFocusLost
	}
	a.logger.Info("action executed",
		zap.String("action", "switch_app"),
		zap.String("app", app))
	return nil
}

// PressChord verifies focus and delivers a key combination such as "cmd+t".
func (a *Actor) PressChord(ctx context.Context, app string, chord string) error {
	if err := a.ensureFocus(ctx, app); err != nil {
		return err
	}
	if err := a.conductor.PressChord(ctx, chord); err != nil {
		return capErr(ctx, "PressChord", err)
	}
	a.logger.Info("action executed",
		zap.String("action", "press_chord"),
		zap.String("app", app),
		zap.String("chord", chord))
	return nil
}

// Scroll performs natural segmented scrolling: variable chunk sizes with
// occasional reading pauses, the way a person skims a page. Positive
// distance scrolls up, negative down.
func (a *Actor) Scroll(ctx context.Context, app string, distance int) error {
	if err := a.ensureFocus(ctx, app); err != nil {
		return err
	}
	rng := a.gen.Rng()
	remaining := distance
	sign := 1
	if remaining < 0 {
		sign = -1
		remaining = -remaining
	}
	for remaining > 0 {
		if err := a.failsafe.Check(ctx, a.conductor); err != nil {
			return err
		}
		amount := 20 + rng.Intn(81) // 20..100 lines per flick
		if amount > remaining {
			amount = remaining
		}
		remaining -= amount
		if err := a.conductor.Scroll(ctx, sign*amount); err != nil {
			return capErr(ctx, "Scroll", err)
		}
		// Reading pause on roughly a third of the flicks.
		if rng.Float64() < 0.3 {
			pause := time.Duration(300+rng.Intn(1200)) * time.Millisecond
			if err := sleep(ctx, pause); err != nil {
				return err
			}
		}
	}
	a.logger.Info("action executed",
		zap.String("action", "scroll"),
		zap.String("app", app),
		zap.Int("distance", distance))
	return nil
}

// Wiggle nudges the pointer a few pixels, the involuntary motion of a hand
// resting on the mouse while reading.
func (a *Actor) Wiggle(ctx context.Context, app string) error {
	if err := a.ensureFocus(ctx, app); err != nil {
		return err
	}
	pos, err := a.conductor.CursorPos(ctx)
	if err != nil {
		return capErr(ctx, "CursorPos", err)
	}
	if err := a.replayTrajectory(ctx, a.gen.Wiggle(pos, a.wiggleRange)); err != nil {
		return err
	}
	a.logger.Debug("action executed",
		zap.String("action", "wiggle"),
		zap.String("app", app))
	return nil
}
