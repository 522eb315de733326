// internal/workflow/catalog.go
package workflow

import (
	"context"
	"math/rand"

	"github.com/xkilldash9x/ghosthand/internal/config"
	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// Workflow identifiers for the two built-in definitions.
const (
	BrowserWorkflowID = "browser"
	EditorWorkflowID  = "editor"
)

// Primitives is the slice of the action primitives the catalogs compose.
// *automation.Actor satisfies it; tests substitute a recorder.
type Primitives interface {
	MoveClick(ctx context.Context, app string, target humanoid.Vector2D) error
	TypeText(ctx context.Context, app string, text string) error
	Wait(ctx context.Context, bounds humanoid.DurationRange) error
	SwitchApp(ctx context.Context, app string) error
	PressChord(ctx context.Context, app string, chord string) error
	Scroll(ctx context.Context, app string, distance int) error
	Wiggle(ctx context.Context, app string) error
}

// pick returns a uniformly random element of items.
func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// BrowserWorkflow builds the browsing activity set: local dev URL visits,
// searches, refreshes and scroll-reading, weighted toward the local sites a
// developer keeps poking at.
func BrowserWorkflow(p Primitives, rng *rand.Rand, cfg config.BrowserWorkflowConfig, pause humanoid.DurationRange) Definition {
	app := cfg.App
	actions := []Action{
		{
			Name: "open_tab", App: app, Weight: 2,
			Run: func(ctx context.Context) error {
				return p.PressChord(ctx, app, "cmd+t")
			},
		},
		{
			Name: "refresh", App: app, Weight: 3,
			Run: func(ctx context.Context) error {
				return p.PressChord(ctx, app, "cmd+r")
			},
		},
		{
			Name: "scroll_read", App: app, Weight: 5,
			Run: func(ctx context.Context) error {
				return p.Scroll(ctx, app, -(300 + rng.Intn(500)))
			},
		},
		{
			Name: "wiggle", App: app, Weight: 2,
			Run: func(ctx context.Context) error {
				return p.Wiggle(ctx, app)
			},
		},
		{
			Name: "click_content", App: app, Weight: 2,
			Run: func(ctx context.Context) error {
				target := humanoid.Vector2D{
					X: float64(100 + rng.Intn(600)),
					Y: float64(100 + rng.Intn(400)),
				}
				return p.MoveClick(ctx, app, target)
			},
		},
	}

	if len(cfg.LocalURLs) > 0 {
		actions = append(actions, Action{
			Name: "visit_local", App: app, Weight: 5,
			Run: func(ctx context.Context) error {
				if err := p.PressChord(ctx, app, "cmd+l"); err != nil {
					return err
				}
				return p.TypeText(ctx, app, pick(rng, cfg.LocalURLs)+"\n")
			},
		})
	}
	if len(cfg.SearchQueries) > 0 {
		actions = append(actions, Action{
			Name: "search", App: app, Weight: 3,
			Run: func(ctx context.Context) error {
				if err := p.PressChord(ctx, app, "cmd+l"); err != nil {
					return err
				}
				return p.TypeText(ctx, app, pick(rng, cfg.SearchQueries)+"\n")
			},
		})
	}

	return Definition{
		ID:          BrowserWorkflowID,
		App:         app,
		Actions:     actions,
		Pause:       pause,
		MaxCycles:   cfg.MaxCycles,
		MaxDuration: cfg.MaxDuration,
	}
}

// EditorWorkflow builds the code editor activity set: quick-open file
// searches, terminal commands, snippet typing and UI toggles, weighted
// toward typing the way the real sessions it imitates are.
func EditorWorkflow(p Primitives, rng *rand.Rand, cfg config.EditorWorkflowConfig, pause humanoid.DurationRange) Definition {
	app := cfg.App
	actions := []Action{
		{
			Name: "toggle_sidebar", App: app, Weight: 1,
			Run: func(ctx context.Context) error {
				return p.PressChord(ctx, app, "cmd+b")
			},
		},
		{
			Name: "switch_tab", App: app, Weight: 2,
			Run: func(ctx context.Context) error {
				return p.PressChord(ctx, app, "ctrl+tab")
			},
		},
		{
			Name: "save", App: app, Weight: 2,
			Run: func(ctx context.Context) error {
				return p.PressChord(ctx, app, "cmd+s")
			},
		},
		{
			Name: "scroll_code", App: app, Weight: 3,
			Run: func(ctx context.Context) error {
				return p.Scroll(ctx, app, -(200 + rng.Intn(600)))
			},
		},
	}

	if len(cfg.FileExtensions) > 0 {
		actions = append(actions, Action{
			Name: "quick_open", App: app, Weight: 3,
			Run: func(ctx context.Context) error {
				if err := p.PressChord(ctx, app, "cmd+p"); err != nil {
					return err
				}
				return p.TypeText(ctx, app, "main"+pick(rng, cfg.FileExtensions)+"\n")
			},
		})
	}
	if len(cfg.Commands) > 0 {
		actions = append(actions, Action{
			Name: "terminal_command", App: app, Weight: 3,
			Run: func(ctx context.Context) error {
				if err := p.PressChord(ctx, app, "ctrl+`"); err != nil {
					return err
				}
				return p.TypeText(ctx, app, pick(rng, cfg.Commands)+"\n")
			},
		})
	}
	if len(cfg.Snippets) > 0 {
		actions = append(actions, Action{
			Name: "type_snippet", App: app, Weight: 5,
			Run: func(ctx context.Context) error {
				return p.TypeText(ctx, app, pick(rng, cfg.Snippets)+"\n")
			},
		})
	}

	return Definition{
		ID:          EditorWorkflowID,
		App:         app,
		Actions:     actions,
		Pause:       pause,
		MaxCycles:   cfg.MaxCycles,
		MaxDuration: cfg.MaxDuration,
	}
}
