// internal/automation/mocks_test.go
package automation

import (
	"context"
	"sync"

	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// mockConductor implements Conductor for testing. Centralized here so every
// test in the package shares one recorder.
//
// Communication between the mock and the test goroutine happens through the
// mutex-guarded recordings or through context cancellation; tests must never
// reach into actor internals from inside a mock callback.
type mockConductor struct {
	mu sync.Mutex

	moves   []humanoid.Vector2D
	clicks  []humanoid.Vector2D
	keys    []humanoid.Keystroke
	chords  []string
	scrolls []int

	cursor  humanoid.Vector2D
	focused string

	activations []string
	// activateSetsFocus makes ActivateApp succeed in bringing the app forward,
	// mirroring a cooperative window manager. When false, focus stays put.
	activateSetsFocus bool

	returnErr error
	// failOp limits returnErr to one operation name; empty fails everything.
	failOp string

	// moveCursorHook runs after each recorded move with the mutex held,
	// letting tests flip state (cursor, focus) at a precise step without
	// racing the actor. It must mutate fields directly, never call the
	// locking helpers.
	moveCursorHook func(m *mockConductor, count int)
}

func newMockConductor() *mockConductor {
	return &mockConductor{
		focused:           "TestApp",
		activateSetsFocus: true,
	}
}

func (m *mockConductor) errFor(op string) error {
	if m.returnErr != nil && (m.failOp == "" || m.failOp == op) {
		return m.returnErr
	}
	return nil
}

func (m *mockConductor) MoveCursor(ctx context.Context, pos humanoid.Vector2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("MoveCursor"); err != nil {
		return err
	}
	m.moves = append(m.moves, pos)
	m.cursor = pos
	if m.moveCursorHook != nil {
		m.moveCursorHook(m, len(m.moves))
	}
	return nil
}

func (m *mockConductor) Click(ctx context.Context, pos humanoid.Vector2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("Click"); err != nil {
		return err
	}
	m.clicks = append(m.clicks, pos)
	return nil
}

func (m *mockConductor) SendKey(ctx context.Context, ev humanoid.Keystroke) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("SendKey"); err != nil {
		return err
	}
	m.keys = append(m.keys, ev)
	return nil
}

func (m *mockConductor) PressChord(ctx context.Context, chord string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("PressChord"); err != nil {
		return err
	}
	m.chords = append(m.chords, chord)
	return nil
}

func (m *mockConductor) Scroll(ctx context.Context, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("Scroll"); err != nil {
		return err
	}
	m.scrolls = append(m.scrolls, amount)
	return nil
}

func (m *mockConductor) CursorPos(ctx context.Context) (humanoid.Vector2D, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("CursorPos"); err != nil {
		return humanoid.Vector2D{}, err
	}
	return m.cursor, nil
}

func (m *mockConductor) FocusedApp(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("FocusedApp"); err != nil {
		return "", err
	}
	return m.focused, nil
}

func (m *mockConductor) ActivateApp(ctx context.Context, app string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errFor("ActivateApp"); err != nil {
		return err
	}
	m.activations = append(m.activations, app)
	if m.activateSetsFocus {
		m.focused = app
	}
	return nil
}

func (m *mockConductor) setCursor(pos humanoid.Vector2D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = pos
}

func (m *mockConductor) setFocused(app string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = app
}

func (m *mockConductor) recordedMoves() []humanoid.Vector2D {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]humanoid.Vector2D, len(m.moves))
	copy(out, m.moves)
	return out
}

func (m *mockConductor) recordedKeys() []humanoid.Keystroke {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]humanoid.Keystroke, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *mockConductor) recordedClicks() []humanoid.Vector2D {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]humanoid.Vector2D, len(m.clicks))
	copy(out, m.clicks)
	return out
}

func (m *mockConductor) recordedChords() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.chords))
	copy(out, m.chords)
	return out
}

func (m *mockConductor) recordedScrolls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.scrolls))
	copy(out, m.scrolls)
	return out
}

func (m *mockConductor) recordedActivations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.activations))
	copy(out, m.activations)
	return out
}
