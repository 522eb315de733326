// internal/coordinator/coordinator_test.go
package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
	"github.com/xkilldash9x/ghosthand/internal/session"
	"github.com/xkilldash9x/ghosthand/internal/workflow"
)

// stubConductor is a cooperative desktop: activation always wins focus and
// every capability succeeds. It records enough to prove input flowed.
type stubConductor struct {
	mu      sync.Mutex
	focused string
	cursor  humanoid.Vector2D
	moves   int
	keys    int
	chords  int
	scrolls int
	clicks  int
}

func newStubConductor() *stubConductor {
	return &stubConductor{focused: "Finder", cursor: humanoid.Vector2D{X: 400, Y: 400}}
}

func (s *stubConductor) MoveCursor(ctx context.Context, pos humanoid.Vector2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = pos
	s.moves++
	return nil
}

func (s *stubConductor) Click(ctx context.Context, pos humanoid.Vector2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks++
	return nil
}

func (s *stubConductor) SendKey(ctx context.Context, ev humanoid.Keystroke) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys++
	return nil
}

func (s *stubConductor) PressChord(ctx context.Context, chord string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chords++
	return nil
}

func (s *stubConductor) Scroll(ctx context.Context, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls++
	return nil
}

func (s *stubConductor) CursorPos(ctx context.Context) (humanoid.Vector2D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, nil
}

func (s *stubConductor) FocusedApp(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused, nil
}

func (s *stubConductor) ActivateApp(ctx context.Context, app string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = app
	return nil
}

func (s *stubConductor) activity() (moves, keys, chords, scrolls, clicks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves, s.keys, s.chords, s.scrolls, s.clicks
}

// stubRegistrar implements hotkeys.Registrar and lets tests fire combos.
type stubRegistrar struct {
	mu       sync.Mutex
	bindings map[string]func()
}

func newStubRegistrar() *stubRegistrar {
	return &stubRegistrar{bindings: make(map[string]func())}
}

func (r *stubRegistrar) Register(combo string, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[combo] = fn
	return nil
}

func (r *stubRegistrar) press(combo string) bool {
	r.mu.Lock()
	fn, ok := r.bindings[combo]
	r.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// fastConfig shrinks every delay so a full workflow run finishes quickly.
func fastConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Input.MoveDurationMin = time.Millisecond
	cfg.Input.MoveDurationMax = 2 * time.Millisecond
	cfg.Typing.KeyDelayMin = time.Millisecond
	cfg.Typing.KeyDelayMax = 2 * time.Millisecond
	cfg.Typing.TypoRate = 0
	cfg.Typing.CorrectionDelayMin = time.Millisecond
	cfg.Typing.CorrectionDelayMax = 2 * time.Millisecond
	cfg.Safety.RefocusDelay = time.Millisecond
	cfg.Workflows.PauseMin = 0
	cfg.Workflows.PauseMax = time.Millisecond
	cfg.Workflows.Browser.MaxCycles = 2
	cfg.Workflows.Editor.MaxCycles = 2
	cfg.Watcher.Enabled = false
	return cfg
}

func TestNew_RejectsNilDependencies(t *testing.T) {
	cfg := fastConfig()
	conductor := newStubConductor()
	registrar := newStubRegistrar()
	logger := zaptest.NewLogger(t)

	_, err := New(nil, conductor, registrar, logger)
	assert.Error(t, err)
	_, err = New(cfg, nil, registrar, logger)
	assert.Error(t, err)
	_, err = New(cfg, conductor, nil, logger)
	assert.Error(t, err)
	_, err = New(cfg, conductor, registrar, nil)
	assert.Error(t, err)

	c, err := New(cfg, conductor, registrar, logger)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestRunWorkflow_UnknownIDFails(t *testing.T) {
	c, err := New(fastConfig(), newStubConductor(), newStubRegistrar(), zaptest.NewLogger(t))
	require.NoError(t, err)

	err = c.runWorkflow(context.Background(), "does-not-exist", nil)
	assert.Error(t, err)
}

func TestRunWorkflow_DrivesTheConductor(t *testing.T) {
	conductor := newStubConductor()
	c, err := New(fastConfig(), conductor, newStubRegistrar(), zaptest.NewLogger(t))
	require.NoError(t, err)
	c.seedFn = func() int64 { return 1337 }

	require.NoError(t, c.runWorkflow(context.Background(), workflow.BrowserWorkflowID, nil))

	// The run must have activated the browser and produced some kind of
	// input; which kind depends on the seeded action draw.
	focused, err := conductor.FocusedApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Google Chrome", focused)

	moves, keys, chords, scrolls, clicks := conductor.activity()
	assert.Positive(t, moves+keys+chords+scrolls+clicks, "two cycles must emit input")
}

func TestRunWorkflow_EditorVariant(t *testing.T) {
	conductor := newStubConductor()
	c, err := New(fastConfig(), conductor, newStubRegistrar(), zaptest.NewLogger(t))
	require.NoError(t, err)
	c.seedFn = func() int64 { return 99 }

	require.NoError(t, c.runWorkflow(context.Background(), workflow.EditorWorkflowID, nil))

	focused, err := conductor.FocusedApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Visual Studio Code", focused)
}

func TestCoordinatorRun_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	conductor := newStubConductor()
	registrar := newStubRegistrar()
	c, err := New(fastConfig(), conductor, registrar, zaptest.NewLogger(t))
	require.NoError(t, err)
	c.seedFn = func() int64 { return 7 }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	// The hotkey surface comes up as part of Run.
	require.Eventually(t, func() bool {
		return c.Controller() != nil && registrar.press("ctrl+alt+b")
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		st := c.Controller().Status()
		return st.State == session.StateRunning || st.State == session.StateIdle
	}, 2*time.Second, 10*time.Millisecond, "the start combo never reached the session")

	// Shutdown drains any active run before Run returns.
	cancel()
	select {
	case err := <-done:
		assert.True(t, err == nil || errors.Is(err, context.Canceled))
	case <-time.After(10 * time.Second):
		t.Fatal("coordinator did not shut down")
	}
	assert.Equal(t, session.StateIdle, c.Controller().Status().State,
		"no run may outlive the coordinator")
}
