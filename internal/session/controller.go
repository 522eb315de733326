// internal/session/controller.go
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghosthand/internal/workflow"
)

// State is the process-wide session state. Exactly one value exists, owned
// by the Controller and mutated only through its transition methods.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyRunning is returned by Start while a workflow is active.
	// The request is reported to the caller; state does not change.
	ErrAlreadyRunning = errors.New("session: a workflow is already running")
	// ErrNotPaused is returned by Resume outside the Paused state.
	ErrNotPaused = errors.New("session: not paused")
)

// RunFunc executes a workflow run to completion. The controller spawns one
// goroutine per Start around this function; it must honor ctx and gate.
type RunFunc func(ctx context.Context, workflowID string, gate workflow.Gate) error

// Status is a snapshot of the controller's state.
type Status struct {
	State      State
	WorkflowID string
	RunID      string
}

// Controller owns the session lifecycle: at most one workflow runs at a
// time, transitions are atomic with respect to each other, and stop is
// cooperative. All shared mutable state lives behind its mutex.
type Controller struct {
	mu      sync.Mutex
	state   State
	wfID    string
	runID   string
	cancel  context.CancelFunc
	done    chan struct{}
	gate    *pauseGate
	baseCtx context.Context
	run     RunFunc
	logger  *zap.Logger
}

// NewController creates a controller whose workflow runs inherit baseCtx, so
// process shutdown cancels any active run.
func NewController(baseCtx context.Context, run RunFunc, logger *zap.Logger) *Controller {
	return &Controller{
		state:   StateIdle,
		baseCtx: baseCtx,
		run:     run,
		logger:  logger.Named("session"),
	}
}

// Start transitions Idle -> Running and spawns the workflow run. It returns
// immediately; ErrAlreadyRunning if any run is active.
func (c *Controller) Start(workflowID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(c.baseCtx)
	c.state = StateRunning
	c.wfID = workflowID
	c.runID = uuid.NewString()
	c.cancel = cancel
	c.done = make(chan struct{})
	c.gate = newPauseGate()

	log := c.logger.With(zap.String("workflow", workflowID), zap.String("run_id", c.runID))
	log.Info("session starting")

	gate := c.gate
	done := c.done
	go func() {
		defer cancel()
		err := c.run(ctx, workflowID, gate)
		c.mu.Lock()
		c.state = StateIdle
		c.wfID = ""
		c.runID = ""
		c.cancel = nil
		c.gate = nil
		c.mu.Unlock()
		close(done)
		if err != nil {
			// Capability failures land here: the run is dead, the session is
			// back to Idle, and the operator gets told why.
			log.Error("session run failed", zap.Error(err))
			return
		}
		log.Info("session run finished")
	}()

	return nil
}

// Pause closes the gate so the running workflow suspends at its next cycle
// boundary, never mid-trajectory. Pausing an idle or stopping session is a
// no-op; pause never fails.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.state = StatePaused
	c.gate.close()
	c.logger.Info("session paused", zap.String("run_id", c.runID))
}

// Resume reopens the gate. Valid only from Paused; the same run continues,
// no new workflow is selected.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePaused {
		return ErrNotPaused
	}
	c.state = StateRunning
	c.gate.open()
	c.logger.Info("session resumed", zap.String("run_id", c.runID))
	return nil
}

// Toggle pauses a running session and resumes a paused one. Bound to the
// single pause/resume hotkey.
func (c *Controller) Toggle() {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state == StatePaused {
		_ = c.Resume()
		return
	}
	c.Pause()
}

// Stop signals cooperative cancellation. The running workflow observes it at
// its next suspension point; state reaches Idle once the run goroutine has
// fully exited. Stopping an idle session is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateStopping
	cancel := c.cancel
	c.mu.Unlock()

	c.logger.Info("session stopping")
	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the current run has fully exited, or
// nil when no run is active. Used by tests and the coordinator's shutdown.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Status returns a snapshot of the session state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, WorkflowID: c.wfID, RunID: c.runID}
}
