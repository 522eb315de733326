// internal/coordinator/coordinator.go
// Description: Top-level wiring. Owns the session controller, binds the
// hotkey surface, supervises the file monitor, and translates workflow IDs
// into engine runs. Injected with the two external capabilities (conductor,
// hotkey registrar) so the core stays testable without an OS backend.

package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/ghosthand/internal/automation"
	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/hotkeys"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
	"github.com/xkilldash9x/ghosthand/internal/session"
	"github.com/xkilldash9x/ghosthand/internal/watcher"
	"github.com/xkilldash9x/ghosthand/internal/workflow"
)

// Coordinator wires the engine components together and owns their lifecycle.
type Coordinator struct {
	cfg       *config.Config
	conductor automation.Conductor
	registrar hotkeys.Registrar
	logger    *zap.Logger

	// controllerMu guards controller, which Run publishes while callers may
	// already be polling Controller().
	controllerMu sync.Mutex
	controller   *session.Controller
	// seedFn produces the random seed for each workflow run. Overridable in
	// tests for reproducible runs.
	seedFn func() int64
}

// New creates a Coordinator. Both capabilities must be non-nil; the watcher
// is optional and governed by configuration.
func New(cfg *config.Config, conductor automation.Conductor, registrar hotkeys.Registrar, logger *zap.Logger) (*Coordinator, error) {
	if cfg == nil || conductor == nil || registrar == nil || logger == nil {
		return nil, fmt.Errorf("coordinator: nil dependency")
	}
	return &Coordinator{
		cfg:       cfg,
		conductor: conductor,
		registrar: registrar,
		logger:    logger.Named("coordinator"),
		seedFn:    func() int64 { return time.Now().UnixNano() },
	}, nil
}

// runWorkflow is the session controller's RunFunc. Each run gets a fresh
// generator (its own persona and random stream), a fresh actor, and a fresh
// engine; nothing survives between runs.
func (c *Coordinator) runWorkflow(ctx context.Context, workflowID string, gate workflow.Gate) error {
	rng := rand.New(rand.NewSource(c.seedFn()))
	gen := humanoid.New(humanoid.ProfileFromConfig(c.cfg.Input, c.cfg.Typing), rng)
	actor := automation.NewActor(c.conductor, gen, c.cfg.Safety, c.cfg.Input, c.logger)
	engine := workflow.NewEngine(rng, c.logger)

	pause := humanoid.DurationRange{
		Min: c.cfg.Workflows.PauseMin,
		Max: c.cfg.Workflows.PauseMax,
	}

	var def workflow.Definition
	switch workflowID {
	case workflow.BrowserWorkflowID:
		def = workflow.BrowserWorkflow(actor, rng, c.cfg.Workflows.Browser, pause)
	case workflow.EditorWorkflowID:
		def = workflow.EditorWorkflow(actor, rng, c.cfg.Workflows.Editor, pause)
	default:
		return fmt.Errorf("coordinator: unknown workflow %q", workflowID)
	}

	// A human does not act in an app that is not frontmost.
	if err := actor.SwitchApp(ctx, def.App); err != nil {
		return err
	}

	outcome, err := engine.Run(ctx, def, gate)
	c.logger.Info("workflow run finished",
		zap.String("workflow", workflowID),
		zap.String("outcome", string(outcome)))
	return err
}

// onFileChange is the monitor handler: change records join the structured
// event stream alongside action records.
func (c *Coordinator) onFileChange(ch watcher.Change) {
	fields := []zap.Field{
		zap.String("op", string(ch.Op)),
		zap.String("path", ch.Path),
	}
	if ch.Record != nil {
		fields = append(fields, zap.Any("record", ch.Record))
	}
	c.logger.Info("file change", fields...)
}

// Controller exposes the session controller for the shell and tests. It is
// nil until Run has started.
func (c *Coordinator) Controller() *session.Controller {
	c.controllerMu.Lock()
	defer c.controllerMu.Unlock()
	return c.controller
}

// Run blocks until ctx is cancelled, supervising the long-lived units: the
// hotkey bindings and the file monitor. No error from a workflow run ever
// reaches here; those end at the session controller.
func (c *Coordinator) Run(ctx context.Context) error {
	controller := session.NewController(ctx, c.runWorkflow, c.logger)
	c.controllerMu.Lock()
	c.controller = controller
	c.controllerMu.Unlock()

	dispatcher := hotkeys.NewDispatcher(c.registrar, controller, c.logger)
	if err := dispatcher.Bind(c.cfg.Hotkeys); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if c.cfg.Watcher.Enabled {
		monitor := watcher.NewMonitor(c.cfg.Watcher, c.onFileChange, c.logger)
		g.Go(func() error {
			return monitor.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		// Shutdown: stop any active run and wait for it to drain so the
		// pointer is never left mid-gesture by a dying process.
		controller.Stop()
		if done := controller.Done(); done != nil {
			<-done
		}
		return nil
	})

	c.logger.Info("ghosthand ready",
		zap.Bool("watcher", c.cfg.Watcher.Enabled),
		zap.String("browser_app", c.cfg.Workflows.Browser.App),
		zap.String("editor_app", c.cfg.Workflows.Editor.App))

	return g.Wait()
}
