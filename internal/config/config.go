// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Input     InputConfig     `mapstructure:"input" yaml:"input"`
	Typing    TypingConfig    `mapstructure:"typing" yaml:"typing"`
	Safety    SafetyConfig    `mapstructure:"safety" yaml:"safety"`
	Hotkeys   HotkeysConfig   `mapstructure:"hotkeys" yaml:"hotkeys"`
	Watcher   WatcherConfig   `mapstructure:"watcher" yaml:"watcher"`
	Workflows WorkflowsConfig `mapstructure:"workflows" yaml:"workflows"`
}

// LoggerConfig controls the zap logger and its file rotation.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// InputConfig tunes the mouse motion generator.
type InputConfig struct {
	// Fitts's Law coefficients (intercept and slope, in milliseconds) used to
	// derive movement duration when no explicit duration bound is supplied.
	FittsA float64 `mapstructure:"fitts_a" yaml:"fitts_a"`
	FittsB float64 `mapstructure:"fitts_b" yaml:"fitts_b"`
	// MoveDurationMin/Max bound the total duration of a single pointer move.
	MoveDurationMin time.Duration `mapstructure:"move_duration_min" yaml:"move_duration_min"`
	MoveDurationMax time.Duration `mapstructure:"move_duration_max" yaml:"move_duration_max"`
	// CurveDeviation is the maximum perpendicular control point offset,
	// expressed as a fraction of the straight line distance.
	CurveDeviation float64 `mapstructure:"curve_deviation" yaml:"curve_deviation"`
	// PerlinAmplitude scales the low frequency drift applied along a path.
	PerlinAmplitude float64 `mapstructure:"perlin_amplitude" yaml:"perlin_amplitude"`
	// TremorStrength scales the high frequency gaussian jitter per step.
	TremorStrength float64 `mapstructure:"tremor_strength" yaml:"tremor_strength"`
	// WiggleRange bounds the random idle wiggle offset, in pixels.
	WiggleRange float64 `mapstructure:"wiggle_range" yaml:"wiggle_range"`
}

// TypingConfig tunes the keystroke generator.
type TypingConfig struct {
	KeyDelayMin time.Duration `mapstructure:"key_delay_min" yaml:"key_delay_min"`
	KeyDelayMax time.Duration `mapstructure:"key_delay_max" yaml:"key_delay_max"`
	// TypoRate is the per-character probability of a wrong-key/backspace/retype
	// correction sequence.
	TypoRate           float64       `mapstructure:"typo_rate" yaml:"typo_rate"`
	CorrectionDelayMin time.Duration `mapstructure:"correction_delay_min" yaml:"correction_delay_min"`
	CorrectionDelayMax time.Duration `mapstructure:"correction_delay_max" yaml:"correction_delay_max"`
	// RepeatFactor scales down the delay for runs of identical characters and
	// for whitespace, which human typists hit faster.
	RepeatFactor float64 `mapstructure:"repeat_factor" yaml:"repeat_factor"`
	// UnsupportedPolicy decides what happens to runes outside the supported
	// set: "skip" drops them, "substitute" types SubstituteRune instead.
	UnsupportedPolicy string `mapstructure:"unsupported_policy" yaml:"unsupported_policy"`
	SubstituteRune    string `mapstructure:"substitute_rune" yaml:"substitute_rune"`
}

// SafetyConfig controls the fail-safe corner and focus recovery.
type SafetyConfig struct {
	FailsafeEnabled bool    `mapstructure:"failsafe_enabled" yaml:"failsafe_enabled"`
	CornerX         float64 `mapstructure:"corner_x" yaml:"corner_x"`
	CornerY         float64 `mapstructure:"corner_y" yaml:"corner_y"`
	CornerRadius    float64 `mapstructure:"corner_radius" yaml:"corner_radius"`
	// RefocusRetries is the number of ActivateApp attempts made when the
	// focus guard trips before the action gives up with a focus-lost error.
	// Zero disables refocusing entirely (abort immediately).
	RefocusRetries int           `mapstructure:"refocus_retries" yaml:"refocus_retries"`
	RefocusDelay   time.Duration `mapstructure:"refocus_delay" yaml:"refocus_delay"`
}

// HotkeysConfig maps global key combinations to session transitions.
// ControlPipe is the FIFO an external hotkey binder (skhd, Hammerspoon)
// writes combo names into; the in-process registrar reads from it.
type HotkeysConfig struct {
	StartBrowser string `mapstructure:"start_browser" yaml:"start_browser"`
	StartEditor  string `mapstructure:"start_editor" yaml:"start_editor"`
	PauseResume  string `mapstructure:"pause_resume" yaml:"pause_resume"`
	Stop         string `mapstructure:"stop" yaml:"stop"`
	ControlPipe  string `mapstructure:"control_pipe" yaml:"control_pipe"`
}

// WatcherConfig controls the external directory monitor.
type WatcherConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	// EventsPerSecond and Burst feed the rate limiter that coalesces the
	// change storms produced by editors doing atomic saves.
	EventsPerSecond float64 `mapstructure:"events_per_second" yaml:"events_per_second"`
	Burst           int     `mapstructure:"burst" yaml:"burst"`
	QueueSize       int     `mapstructure:"queue_size" yaml:"queue_size"`
}

// WorkflowsConfig holds the declarative material both built-in workflows
// draw their actions from.
type WorkflowsConfig struct {
	Browser BrowserWorkflowConfig `mapstructure:"browser" yaml:"browser"`
	Editor  EditorWorkflowConfig  `mapstructure:"editor" yaml:"editor"`
	// PauseMin/Max bound the randomized pause between workflow cycles.
	PauseMin time.Duration `mapstructure:"pause_min" yaml:"pause_min"`
	PauseMax time.Duration `mapstructure:"pause_max" yaml:"pause_max"`
}

// BrowserWorkflowConfig parameterizes the browser activity set.
type BrowserWorkflowConfig struct {
	App           string        `mapstructure:"app" yaml:"app"`
	LocalURLs     []string      `mapstructure:"local_urls" yaml:"local_urls"`
	SearchQueries []string      `mapstructure:"search_queries" yaml:"search_queries"`
	MaxCycles     int           `mapstructure:"max_cycles" yaml:"max_cycles"`
	MaxDuration   time.Duration `mapstructure:"max_duration" yaml:"max_duration"`
}

// EditorWorkflowConfig parameterizes the code editor activity set.
type EditorWorkflowConfig struct {
	App            string        `mapstructure:"app" yaml:"app"`
	Commands       []string      `mapstructure:"commands" yaml:"commands"`
	Snippets       []string      `mapstructure:"snippets" yaml:"snippets"`
	FileExtensions []string      `mapstructure:"file_extensions" yaml:"file_extensions"`
	MaxCycles      int           `mapstructure:"max_cycles" yaml:"max_cycles"`
	MaxDuration    time.Duration `mapstructure:"max_duration" yaml:"max_duration"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "ghosthand")
	v.SetDefault("logger.log_file", "ghosthand.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Input / motion --
	v.SetDefault("input.fitts_a", 120.0)
	v.SetDefault("input.fitts_b", 140.0)
	v.SetDefault("input.move_duration_min", "400ms")
	v.SetDefault("input.move_duration_max", "1200ms")
	v.SetDefault("input.curve_deviation", 0.2)
	v.SetDefault("input.perlin_amplitude", 2.5)
	v.SetDefault("input.tremor_strength", 0.5)
	v.SetDefault("input.wiggle_range", 10.0)

	// -- Typing --
	v.SetDefault("typing.key_delay_min", "50ms")
	v.SetDefault("typing.key_delay_max", "200ms")
	v.SetDefault("typing.typo_rate", 0.05)
	v.SetDefault("typing.correction_delay_min", "100ms")
	v.SetDefault("typing.correction_delay_max", "500ms")
	v.SetDefault("typing.repeat_factor", 0.6)
	v.SetDefault("typing.unsupported_policy", "skip")
	v.SetDefault("typing.substitute_rune", "?")

	// -- Safety --
	v.SetDefault("safety.failsafe_enabled", true)
	v.SetDefault("safety.corner_x", 0.0)
	v.SetDefault("safety.corner_y", 0.0)
	v.SetDefault("safety.corner_radius", 10.0)
	v.SetDefault("safety.refocus_retries", 2)
	v.SetDefault("safety.refocus_delay", "1s")

	// -- Hotkeys --
	v.SetDefault("hotkeys.start_browser", "ctrl+alt+b")
	v.SetDefault("hotkeys.start_editor", "ctrl+alt+s")
	v.SetDefault("hotkeys.pause_resume", "ctrl+alt+p")
	v.SetDefault("hotkeys.stop", "ctrl+alt+x")
	v.SetDefault("hotkeys.control_pipe", "/tmp/ghosthand.ctl")

	// -- Watcher --
	v.SetDefault("watcher.enabled", false)
	v.SetDefault("watcher.path", "")
	v.SetDefault("watcher.events_per_second", 4.0)
	v.SetDefault("watcher.burst", 8)
	v.SetDefault("watcher.queue_size", 64)

	// -- Workflows --
	v.SetDefault("workflows.pause_min", "300ms")
	v.SetDefault("workflows.pause_max", "1500ms")

	v.SetDefault("workflows.browser.app", "Google Chrome")
	v.SetDefault("workflows.browser.local_urls", []string{
		"http://localhost:3000",
		"http://localhost:8000",
		"http://127.0.0.1:8000",
		"http://localhost:5000",
		"http://localhost:4200",
	})
	v.SetDefault("workflows.browser.search_queries", []string{
		"python best practices",
		"software design patterns",
		"git workflow examples",
		"coding best practices",
		"web development trends",
	})
	v.SetDefault("workflows.browser.max_cycles", 40)
	v.SetDefault("workflows.browser.max_duration", "15m")

	v.SetDefault("workflows.editor.app", "Visual Studio Code")
	v.SetDefault("workflows.editor.commands", []string{
		"git status",
		"npm start",
		"ls -la",
		"docker ps",
		"npm run dev",
	})
	v.SetDefault("workflows.editor.snippets", []string{
		"def process_data(input_data):",
		"    result = []",
		"    for item in input_data:",
	})
	v.SetDefault("workflows.editor.file_extensions", []string{
		".py", ".js", ".html", ".css", ".json", ".md",
	})
	v.SetDefault("workflows.editor.max_cycles", 40)
	v.SetDefault("workflows.editor.max_duration", "15m")
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants that viper cannot express.
func (c *Config) Validate() error {
	if c.Input.MoveDurationMax < c.Input.MoveDurationMin {
		return fmt.Errorf("config: input.move_duration_max (%s) is below input.move_duration_min (%s)",
			c.Input.MoveDurationMax, c.Input.MoveDurationMin)
	}
	if c.Typing.KeyDelayMax < c.Typing.KeyDelayMin {
		return fmt.Errorf("config: typing.key_delay_max (%s) is below typing.key_delay_min (%s)",
			c.Typing.KeyDelayMax, c.Typing.KeyDelayMin)
	}
	if c.Typing.TypoRate < 0 || c.Typing.TypoRate > 0.5 {
		return fmt.Errorf("config: typing.typo_rate %.3f out of range [0, 0.5]", c.Typing.TypoRate)
	}
	switch c.Typing.UnsupportedPolicy {
	case "skip", "substitute":
	default:
		return fmt.Errorf("config: typing.unsupported_policy %q (want \"skip\" or \"substitute\")",
			c.Typing.UnsupportedPolicy)
	}
	if c.Safety.RefocusRetries < 0 {
		return fmt.Errorf("config: safety.refocus_retries must not be negative")
	}
	if c.Watcher.Enabled && c.Watcher.Path == "" {
		return fmt.Errorf("config: watcher.path is required when watcher.enabled is true")
	}
	if c.Workflows.PauseMax < c.Workflows.PauseMin {
		return fmt.Errorf("config: workflows.pause_max (%s) is below workflows.pause_min (%s)",
			c.Workflows.PauseMax, c.Workflows.PauseMin)
	}
	return nil
}
