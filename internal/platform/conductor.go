// internal/platform/conductor.go
// Description: The thin macOS binding of the automation capability. The core
// never imports this package directly; it sees only the Conductor interface.
// Pointer work shells out to cliclick, application and keyboard work to
// osascript, so nothing here needs cgo or an event-tap entitlement beyond
// what those tools already hold.

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghosthand/internal/humanoid"
)

// ScriptConductor drives the desktop through cliclick and osascript.
type ScriptConductor struct {
	cliclick string
	logger   *zap.Logger
}

// NewScriptConductor creates the conductor. An empty cliclick path means
// "find it on PATH".
func NewScriptConductor(cliclick string, logger *zap.Logger) *ScriptConductor {
	if cliclick == "" {
		cliclick = "cliclick"
	}
	return &ScriptConductor{cliclick: cliclick, logger: logger.Named("platform")}
}

func (s *ScriptConductor) runCliclick(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, s.cliclick, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("cliclick %s: %w (%s)", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *ScriptConductor) runOsascript(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// MoveCursor places the pointer.
func (s *ScriptConductor) MoveCursor(ctx context.Context, pos humanoid.Vector2D) error {
	return s.runCliclick(ctx, fmt.Sprintf("m:%d,%d", int(pos.X), int(pos.Y)))
}

// Click presses and releases the primary button at pos.
func (s *ScriptConductor) Click(ctx context.Context, pos humanoid.Vector2D) error {
	return s.runCliclick(ctx, fmt.Sprintf("c:%d,%d", int(pos.X), int(pos.Y)))
}

// CursorPos reports the actual pointer position.
func (s *ScriptConductor) CursorPos(ctx context.Context) (humanoid.Vector2D, error) {
	out, err := exec.CommandContext(ctx, s.cliclick, "p:.").CombinedOutput()
	if err != nil {
		return humanoid.Vector2D{}, fmt.Errorf("cliclick p: %w", err)
	}
	// Output shape: "x,y"
	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(parts) != 2 {
		return humanoid.Vector2D{}, fmt.Errorf("cliclick p: unexpected output %q", string(out))
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return humanoid.Vector2D{}, fmt.Errorf("cliclick p: unparsable output %q", string(out))
	}
	return humanoid.Vector2D{X: x, Y: y}, nil
}

// SendKey delivers one keystroke event.
func (s *ScriptConductor) SendKey(ctx context.Context, ev humanoid.Keystroke) error {
	switch ev.Key {
	case humanoid.KeyBackspace:
		return s.runCliclick(ctx, "kp:delete")
	case humanoid.KeyEnter:
		return s.runCliclick(ctx, "kp:return")
	case humanoid.KeyTab:
		return s.runCliclick(ctx, "kp:tab")
	}
	return s.runCliclick(ctx, "t:"+string(ev.Rune))
}

// chordScript translates a combo like "cmd+shift+p" into the System Events
// keystroke incantation.
func chordScript(chord string) (string, error) {
	parts := strings.Split(strings.ToLower(chord), "+")
	key := parts[len(parts)-1]
	var mods []string
	for _, m := range parts[:len(parts)-1] {
		switch m {
		case "cmd", "command":
			mods = append(mods, "command down")
		case "ctrl", "control":
			mods = append(mods, "control down")
		case "alt", "option":
			mods = append(mods, "option down")
		case "shift":
			mods = append(mods, "shift down")
		default:
			return "", fmt.Errorf("platform: unknown modifier %q in chord %q", m, chord)
		}
	}
	script := fmt.Sprintf("tell application %q to keystroke %q", "System Events", key)
	if len(mods) > 0 {
		script += " using {" + strings.Join(mods, ", ") + "}"
	}
	return script, nil
}

// PressChord delivers a combination like "cmd+shift+p" through System Events.
func (s *ScriptConductor) PressChord(ctx context.Context, chord string) error {
	script, err := chordScript(chord)
	if err != nil {
		return err
	}
	_, err = s.runOsascript(ctx, script)
	return err
}

// Scroll scrolls the focused view; positive amounts scroll up.
func (s *ScriptConductor) Scroll(ctx context.Context, amount int) error {
	dir := "+"
	if amount < 0 {
		dir = "-"
		amount = -amount
	}
	return s.runCliclick(ctx, fmt.Sprintf("w:%s%d", dir, amount))
}

// FocusedApp reports the frontmost application's name.
func (s *ScriptConductor) FocusedApp(ctx context.Context) (string, error) {
	return s.runOsascript(ctx,
		`tell application "System Events" to get name of first application process whose frontmost is true`)
}

// ActivateApp brings the named application to the front.
func (s *ScriptConductor) ActivateApp(ctx context.Context, app string) error {
	_, err := s.runOsascript(ctx, fmt.Sprintf("tell application %q to activate", app))
	return err
}
