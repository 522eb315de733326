// internal/humanoid/profile.go
package humanoid

import (
	"math/rand"
	"time"

	"github.com/xkilldash9x/ghosthand/internal/config"
)

// DurationRange bounds a randomized delay.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

// draw picks a uniformly distributed duration within the range. A degenerate
// range (Max <= Min) collapses to Min.
func (r DurationRange) draw(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)))
}

// UnsupportedPolicy selects how the typing generator treats runes it has no
// key mapping for.
type UnsupportedPolicy int

const (
	// UnsupportedSkip silently drops unsupported runes. This is the default.
	UnsupportedSkip UnsupportedPolicy = iota
	// UnsupportedSubstitute types the profile's Substitute rune instead.
	UnsupportedSubstitute
)

// Profile is the persona of the simulated operator: every distribution the
// motion and typing generators draw from. A Profile is immutable once built;
// all randomness lives in the Generator that owns it.
type Profile struct {
	// Fitts's Law coefficients (ms). Used when a move has no explicit
	// duration bound.
	FittsA float64
	FittsB float64
	// MoveDuration clamps the total duration of a pointer move.
	MoveDuration DurationRange
	// CurveDeviation is the maximum perpendicular control point offset as a
	// fraction of the straight-line distance.
	CurveDeviation float64
	// PerlinAmplitude scales low-frequency drift along a trajectory, in pixels.
	PerlinAmplitude float64
	// TremorStrength scales high-frequency gaussian jitter per step, in pixels.
	TremorStrength float64

	// KeyDelay bounds the pause before each keystroke.
	KeyDelay DurationRange
	// TypoRate is the per-character probability of an error/correction pair.
	TypoRate float64
	// CorrectionDelay bounds the pause between a wrong key and its backspace.
	CorrectionDelay DurationRange
	// RepeatFactor scales KeyDelay down for repeated characters and whitespace.
	RepeatFactor float64
	// Unsupported decides the fate of runes outside the supported set.
	Unsupported UnsupportedPolicy
	// Substitute is typed in place of unsupported runes when the policy is
	// UnsupportedSubstitute.
	Substitute rune
}

// DefaultProfile returns a persona representing an average operator.
func DefaultProfile() Profile {
	return Profile{
		FittsA:          120.0,
		FittsB:          140.0,
		MoveDuration:    DurationRange{Min: 400 * time.Millisecond, Max: 1200 * time.Millisecond},
		CurveDeviation:  0.2,
		PerlinAmplitude: 2.5,
		TremorStrength:  0.5,
		KeyDelay:        DurationRange{Min: 50 * time.Millisecond, Max: 200 * time.Millisecond},
		TypoRate:        0.05,
		CorrectionDelay: DurationRange{Min: 100 * time.Millisecond, Max: 500 * time.Millisecond},
		RepeatFactor:    0.6,
		Unsupported:     UnsupportedSkip,
		Substitute:      '?',
	}
}

// ProfileFromConfig builds a Profile from the application configuration.
func ProfileFromConfig(in config.InputConfig, ty config.TypingConfig) Profile {
	p := Profile{
		FittsA:          in.FittsA,
		FittsB:          in.FittsB,
		MoveDuration:    DurationRange{Min: in.MoveDurationMin, Max: in.MoveDurationMax},
		CurveDeviation:  in.CurveDeviation,
		PerlinAmplitude: in.PerlinAmplitude,
		TremorStrength:  in.TremorStrength,
		KeyDelay:        DurationRange{Min: ty.KeyDelayMin, Max: ty.KeyDelayMax},
		TypoRate:        ty.TypoRate,
		CorrectionDelay: DurationRange{Min: ty.CorrectionDelayMin, Max: ty.CorrectionDelayMax},
		RepeatFactor:    ty.RepeatFactor,
		Unsupported:     UnsupportedSkip,
		Substitute:      '?',
	}
	if ty.UnsupportedPolicy == "substitute" {
		p.Unsupported = UnsupportedSubstitute
	}
	if ty.SubstituteRune != "" {
		p.Substitute = []rune(ty.SubstituteRune)[0]
	}
	return p
}
