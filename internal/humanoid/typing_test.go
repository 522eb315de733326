// internal/humanoid/typing_test.go
package humanoid

import (
	"math/rand"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystrokes_ReplayReconstructsText(t *testing.T) {
	texts := []string{
		"hello world",
		"git status\n",
		"def process_data(input_data):\n\tresult = []",
		"MixedCase AND punctuation! @#$%",
		"",
	}

	// Reconstruction must hold regardless of how error-prone the persona is.
	for _, typoRate := range []float64{0.0, 0.05, 0.5} {
		profile := DefaultProfile()
		profile.TypoRate = typoRate
		g := New(profile, rand.New(rand.NewSource(77)))

		for _, text := range texts {
			events := g.Keystrokes(text)
			assert.Equal(t, text, Replay(events),
				"replay mismatch for %q at typo rate %.2f", text, typoRate)
		}
	}
}

func TestKeystrokes_ZeroTypoRateIsClean(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	g := New(profile, rand.New(rand.NewSource(1)))

	events := g.Keystrokes("the quick brown fox")
	for i, ev := range events {
		assert.False(t, ev.Correction, "event %d flagged as correction with typos disabled", i)
		assert.NotEqual(t, KeyBackspace, ev.Key, "event %d is a backspace with typos disabled", i)
	}
}

func TestKeystrokes_TypoShape(t *testing.T) {
	// Force a typo on every eligible character and inspect the triple.
	profile := DefaultProfile()
	profile.TypoRate = 1.0
	g := New(profile, rand.New(rand.NewSource(9)))

	events := g.Keystrokes("a")
	require.Len(t, events, 3)

	wrong, back, retype := events[0], events[1], events[2]
	assert.NotEqual(t, 'a', wrong.Rune, "the wrong key must differ from the intended one")
	assert.False(t, wrong.Correction, "the slip itself is not part of the correction")
	assert.Equal(t, KeyBackspace, back.Key)
	assert.True(t, back.Correction)
	assert.Equal(t, 'a', retype.Rune)
	assert.True(t, retype.Correction)
	assert.Equal(t, "a", Replay(events))
}

func TestKeystrokes_SpacesNeverMistyped(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 1.0
	g := New(profile, rand.New(rand.NewSource(4)))

	events := g.Keystrokes("   ")
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.Equal(t, ' ', ev.Rune)
		assert.False(t, ev.Correction)
	}
}

func TestKeystrokes_TypoRateConverges(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0.10
	g := New(profile, rand.New(rand.NewSource(314)))

	// Long lowercase text with no repeats of the trap kinds: every character
	// is typo-eligible.
	text := ""
	for i := 0; i < 5000; i++ {
		text += string(rune('a' + i%26))
	}

	events := g.Keystrokes(text)
	typos := 0
	for _, ev := range events {
		if ev.Key == KeyBackspace {
			typos++
		}
	}
	observed := float64(typos) / 5000.0
	assert.InDelta(t, 0.10, observed, 0.02, "typo frequency should track the configured rate")
}

func TestKeystrokes_WrongKeysAreNeighbors(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 1.0
	g := New(profile, rand.New(rand.NewSource(12)))

	for i := 0; i < 200; i++ {
		events := g.Keystrokes("g")
		require.Len(t, events, 3)
		wrong := unicode.ToLower(events[0].Rune)
		assert.Contains(t, keyboardNeighbors['g'], string(wrong),
			"slip %d landed on a key nowhere near 'g'", i)
	}
}

func TestKeystrokes_WrongKeyFollowsCase(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 1.0
	g := New(profile, rand.New(rand.NewSource(6)))

	events := g.Keystrokes("G")
	require.Len(t, events, 3)
	assert.True(t, unicode.IsUpper(events[0].Rune), "shift was held, the slip is uppercase too")
}

func TestKeystrokes_ControlKeys(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	g := New(profile, rand.New(rand.NewSource(2)))

	events := g.Keystrokes("a\nb\tc")
	require.Len(t, events, 5)
	assert.Equal(t, KeyEnter, events[1].Key)
	assert.Equal(t, KeyTab, events[3].Key)
	assert.Equal(t, "a\nb\tc", Replay(events))
}

func TestKeystrokes_UnsupportedSkip(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	profile.Unsupported = UnsupportedSkip
	g := New(profile, rand.New(rand.NewSource(3)))

	events := g.Keystrokes("héllo → wörld")
	assert.Equal(t, "hllo  wrld", Replay(events), "non-ASCII runes are dropped silently")
}

func TestKeystrokes_UnsupportedSubstitute(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	profile.Unsupported = UnsupportedSubstitute
	profile.Substitute = '?'
	g := New(profile, rand.New(rand.NewSource(3)))

	events := g.Keystrokes("café")
	assert.Equal(t, "caf?", Replay(events))
}

func TestKeystrokes_DelaysWithinProfile(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	g := New(profile, rand.New(rand.NewSource(21)))

	events := g.Keystrokes("abcdefgh")
	for i, ev := range events {
		assert.GreaterOrEqual(t, ev.Delay, profile.KeyDelay.Min, "event %d fired too fast", i)
		assert.Less(t, ev.Delay, profile.KeyDelay.Max, "event %d dawdled", i)
	}
}

func TestKeystrokes_RepeatsComeFaster(t *testing.T) {
	profile := DefaultProfile()
	profile.TypoRate = 0
	profile.KeyDelay = DurationRange{Min: 100 * time.Millisecond, Max: 101 * time.Millisecond}
	profile.RepeatFactor = 0.5
	g := New(profile, rand.New(rand.NewSource(11)))

	events := g.Keystrokes("aa")
	require.Len(t, events, 2)
	assert.Less(t, events[1].Delay, events[0].Delay,
		"the second press of a held-over finger lands faster")
}

func TestReplay_BackspaceOnEmptyBuffer(t *testing.T) {
	events := []Keystroke{
		{Key: KeyBackspace},
		{Rune: 'x'},
	}
	assert.Equal(t, "x", Replay(events))
}

func TestSupportedRune(t *testing.T) {
	assert.True(t, supportedRune('a'))
	assert.True(t, supportedRune('Z'))
	assert.True(t, supportedRune('!'))
	assert.True(t, supportedRune(' '))
	assert.True(t, supportedRune('\n'))
	assert.True(t, supportedRune('\t'))
	assert.False(t, supportedRune('é'))
	assert.False(t, supportedRune('→'))
	assert.False(t, supportedRune('\r'))
}
