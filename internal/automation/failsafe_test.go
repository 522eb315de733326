// internal/automation/failsafe_test.go
package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

func TestFailsafe_Triggered(t *testing.T) {
	f := NewFailsafe(config.SafetyConfig{
		FailsafeEnabled: true,
		CornerX:         0,
		CornerY:         0,
		CornerRadius:    10,
	})

	assert.True(t, f.Triggered(humanoid.Vector2D{X: 0, Y: 0}))
	assert.True(t, f.Triggered(humanoid.Vector2D{X: 6, Y: 8}), "on the radius counts as triggered")
	assert.False(t, f.Triggered(humanoid.Vector2D{X: 7, Y: 8}))
	assert.False(t, f.Triggered(humanoid.Vector2D{X: 500, Y: 500}))
}

func TestFailsafe_Disabled(t *testing.T) {
	f := NewFailsafe(config.SafetyConfig{FailsafeEnabled: false, CornerRadius: 10})

	assert.False(t, f.Triggered(humanoid.Vector2D{X: 0, Y: 0}))

	mock := newMockConductor()
	mock.setCursor(humanoid.Vector2D{X: 0, Y: 0})
	assert.NoError(t, f.Check(context.Background(), mock))
}

func TestFailsafe_Check(t *testing.T) {
	f := NewFailsafe(config.SafetyConfig{FailsafeEnabled: true, CornerRadius: 10})

	t.Run("clear pointer passes", func(t *testing.T) {
		mock := newMockConductor()
		mock.setCursor(humanoid.Vector2D{X: 400, Y: 300})
		assert.NoError(t, f.Check(context.Background(), mock))
	})

	t.Run("cornered pointer trips", func(t *testing.T) {
		mock := newMockConductor()
		mock.setCursor(humanoid.Vector2D{X: 3, Y: 4})
		assert.ErrorIs(t, f.Check(context.Background(), mock), ErrFailsafe)
	})

	t.Run("blind fail-safe is a capability fault", func(t *testing.T) {
		mock := newMockConductor()
		mock.returnErr = errors.New("no screen access")
		mock.failOp = "CursorPos"

		err := f.Check(context.Background(), mock)
		require.Error(t, err)
		var capability *CapabilityError
		assert.ErrorAs(t, err, &capability)
	})
}

func TestCapabilityError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &CapabilityError{Op: "MoveCursor", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "MoveCursor")
}

func TestCapErr_PassesThroughCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := capErr(ctx, "MoveCursor", errors.New("interrupted syscall"))
	assert.ErrorIs(t, err, context.Canceled, "a cancelled context is a stop, not a capability fault")

	assert.NoError(t, capErr(context.Background(), "MoveCursor", nil))
}
