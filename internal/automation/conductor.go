// internal/automation/conductor.go
package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// Conductor is the OS automation capability: the one interface through which
// the process touches the pointer, the keyboard, and application focus. The
// production implementation binds the platform accessibility APIs and lives
// outside this core; tests use a mock.
type Conductor interface {
	// MoveCursor places the pointer at the given screen coordinate.
	MoveCursor(ctx context.Context, pos humanoid.Vector2D) error
	// Click presses and releases the primary button at the given coordinate.
	Click(ctx context.Context, pos humanoid.Vector2D) error
	// SendKey delivers a single keystroke event to the focused application.
	SendKey(ctx context.Context, ev humanoid.Keystroke) error
	// PressChord delivers a key combination such as "cmd+t" atomically.
	PressChord(ctx context.Context, chord string) error
	// Scroll scrolls the focused view; positive amounts scroll up.
	Scroll(ctx context.Context, amount int) error
	// CursorPos reports the pointer's actual position. This reflects real
	// hardware input, which is what makes the fail-safe corner work.
	CursorPos(ctx context.Context) (humanoid.Vector2D, error)
	// FocusedApp reports the identifier of the frontmost application.
	FocusedApp(ctx context.Context) (string, error)
	// ActivateApp brings the named application to the front.
	ActivateApp(ctx context.Context, app string) error
}

// Sentinel errors for the recoverable conditions of §7.
var (
	// ErrFocusLost is returned when the target application is not focused
	// and refocusing is disabled or exhausted. The workflow aborts cleanly.
	ErrFocusLost = errors.New("automation: target application lost focus")
	// ErrFailsafe is returned when the operator slams the pointer into the
	// designated screen corner. It aborts the in-flight primitive.
	ErrFailsafe = errors.New("automation: failsafe corner triggered")
)

// CapabilityError wraps a failure of the Conductor itself, e.g. a revoked
// accessibility permission. It is fatal to the current workflow and surfaced
// to the process shell.
type CapabilityError struct {
	Op  string
	Err error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("automation: capability %s failed: %v", e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// capErr wraps conductor failures, letting context cancellation pass through
// untouched so cooperative stops are not misreported as capability faults.
func capErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &CapabilityError{Op: op, Err: err}
}
