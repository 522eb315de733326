// internal/automation/failsafe.go
package automation

import (
	"context"

	"github.com/xkilldash9x/ghosthand/internal/humanoid"

	"github.com/xkilldash9x/ghosthand/internal/config"
)

// Failsafe detects the operator override: the pointer parked in a designated
// screen corner. It is consulted between individual trajectory steps, so an
// in-flight move aborts within one step of the trigger.
type Failsafe struct {
	enabled bool
	corner  humanoid.Vector2D
	radius  float64
}

// NewFailsafe builds the fail-safe check from configuration.
func NewFailsafe(cfg config.SafetyConfig) *Failsafe {
	return &Failsafe{
		enabled: cfg.FailsafeEnabled,
		corner:  humanoid.Vector2D{X: cfg.CornerX, Y: cfg.CornerY},
		radius:  cfg.CornerRadius,
	}
}

// Check queries the real pointer position and returns ErrFailsafe when it
// sits inside the corner region. Conductor failures here are capability
// errors: a fail-safe that cannot see the pointer must not pretend all is well.
func (f *Failsafe) Check(ctx context.Context, c Conductor) error {
	if f == nil || !f.enabled {
		return nil
	}
	pos, err := c.CursorPos(ctx)
	if err != nil {
		return capErr(ctx, "CursorPos", err)
	}
	if pos.Dist(f.corner) <= f.radius {
		return ErrFailsafe
	}
	return nil
}

// Triggered reports whether a given position is inside the corner region,
// without touching the conductor. Used where the position is already known.
func (f *Failsafe) Triggered(pos humanoid.Vector2D) bool {
	if f == nil || !f.enabled {
		return false
	}
	return pos.Dist(f.corner) <= f.radius
}
