// internal/humanoid/typing.go
package humanoid

import (
	"time"
	"unicode"
)

// Key identifies a non-printing key in a keystroke event.
type Key string

const (
	KeyNone      Key = ""
	KeyBackspace Key = "backspace"
	KeyEnter     Key = "enter"
	KeyTab       Key = "tab"
)

// Keystroke is one timed keyboard event. Exactly one of Rune or Key is
// meaningful: printable events carry Rune with Key == KeyNone, control
// events carry Key with Rune == 0. Correction marks the backspace that
// erases a deliberate typo and the retype that follows it.
type Keystroke struct {
	Rune       rune
	Key        Key
	Delay      time.Duration
	Correction bool
}

// keyboardNeighbors maps characters to their adjacent keys on a QWERTY
// layout, used to pick plausible wrong keys.
var keyboardNeighbors = map[rune]string{
	'1': "2q`", '2': "13wq", '3': "24we", '4': "35er", '5': "46rt", '6': "57ty",
	'7': "68yu", '8': "79ui", '9': "80io", '0': "9-op",
	'q': "wa1s", 'w': "qase23", 'e': "wsdr34", 'r': "edft45", 't': "rfgy56",
	'y': "tghu67", 'u': "yhji78", 'i': "ujko89", 'o': "iklp90", 'p': "ol;0-",
	'a': "qwsz", 's': "awedxz", 'd': "serfcx", 'f': "drtgvc", 'g': "ftyhbv",
	'h': "gyujnb", 'j': "huikmn", 'k': "jiol,m", 'l': "kop;.",
	'z': "asx", 'x': "zsdc", 'c': "xdfv", 'v': "cfgb", 'b': "vghn", 'n': "bhjm", 'm': "njk,",
}

// supportedRune reports whether the typing generator can emit the rune at
// all. Newline and tab map to control keys; everything else must be a
// printable ASCII-ish graphic character or a space.
func supportedRune(r rune) bool {
	if r == '\n' || r == '\t' || r == ' ' {
		return true
	}
	return unicode.IsGraphic(r) && r < unicode.MaxASCII
}

// controlFor maps structural whitespace to its control key.
func controlFor(r rune) Key {
	switch r {
	case '\n':
		return KeyEnter
	case '\t':
		return KeyTab
	default:
		return KeyNone
	}
}

// wrongKeyFor picks a believable mistyped rune for the intended one: an
// adjacent QWERTY key when the layout knows the rune, otherwise a random
// lowercase letter. Case follows the intended rune.
func (g *Generator) wrongKeyFor(intended rune) rune {
	lower := unicode.ToLower(intended)
	var wrong rune
	if neighbors, ok := keyboardNeighbors[lower]; ok && len(neighbors) > 0 {
		wrong = rune(neighbors[g.rng.Intn(len(neighbors))])
	} else {
		wrong = rune('a' + g.rng.Intn(26))
	}
	if unicode.IsUpper(intended) {
		wrong = unicode.ToUpper(wrong)
	}
	return wrong
}

// keyDelay draws the pause before a keystroke. Repeated characters and
// whitespace come faster, scaled by the profile's RepeatFactor.
func (g *Generator) keyDelay(r, prev rune) time.Duration {
	d := g.profile.KeyDelay.draw(g.rng)
	if r == prev || unicode.IsSpace(r) {
		d = time.Duration(float64(d) * g.profile.RepeatFactor)
	}
	return d
}

// Keystrokes generates the timed event sequence that types text. Replaying
// the events in order with standard insert/backspace semantics yields
// exactly text (minus unsupported runes under the skip policy, or with the
// substitute rune in their place under the substitute policy).
func (g *Generator) Keystrokes(text string) []Keystroke {
	events := make([]Keystroke, 0, len(text))
	var prev rune

	for _, r := range text {
		if !supportedRune(r) {
			switch g.profile.Unsupported {
			case UnsupportedSubstitute:
				r = g.profile.Substitute
			default:
				continue
			}
		}

		if key := controlFor(r); key != KeyNone {
			events = append(events, Keystroke{Key: key, Delay: g.keyDelay(r, prev)})
			prev = r
			continue
		}

		// A typo is a wrong key, a pause while the eye catches it, a
		// backspace, and the intended key. Spaces are never mistyped; a
		// fat-fingered space bar is not a believable error.
		if r != ' ' && g.rng.Float64() < g.profile.TypoRate {
			events = append(events,
				Keystroke{Rune: g.wrongKeyFor(r), Delay: g.keyDelay(r, prev)},
				Keystroke{Key: KeyBackspace, Delay: g.profile.CorrectionDelay.draw(g.rng), Correction: true},
				Keystroke{Rune: r, Delay: g.profile.CorrectionDelay.draw(g.rng), Correction: true},
			)
		} else {
			events = append(events, Keystroke{Rune: r, Delay: g.keyDelay(r, prev)})
		}
		prev = r
	}
	return events
}

// Replay applies insert/backspace semantics to a keystroke sequence and
// returns the resulting text. Control keys other than backspace insert
// their structural character. Used by tests and the simulate command to
// verify the reconstruction invariant.
func Replay(events []Keystroke) string {
	buf := make([]rune, 0, len(events))
	for _, ev := range events {
		switch ev.Key {
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case KeyEnter:
			buf = append(buf, '\n')
		case KeyTab:
			buf = append(buf, '\t')
		default:
			buf = append(buf, ev.Rune)
		}
	}
	return string(buf)
}
