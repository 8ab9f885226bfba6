// Package input parses human-readable key and controller combos, and
// evaluates them against the state of input devices.
//
// A combo string is a comma-separated list of alternatives. Each
// alternative is a plus-separated list of tokens that must all be held
// at the same time. For example:
//
//	f1, lthumbpress+xa
//
// is satisfied either by the F1 key, or by holding the left thumbstick
// and the A button on a controller. Controller combos also require the
// right trigger to be pulled past TriggerThreshold.
package input

import (
	"fmt"
	"strings"
	"unicode"
)

// Source identifies which device a Combo is evaluated against.
type Source int

const (
	Keyboard Source = iota
	Controller
)

func (o Source) String() string {
	switch o {
	case Keyboard:
		return "keyboard"
	case Controller:
		return "controller"
	default:
		return fmt.Sprintf("unknown source (%d)", int(o))
	}
}

// Combo is a set of keys or buttons that must be held concurrently.
type Combo struct {
	// Codes are virtual-key codes for Keyboard combos, and button
	// bits for Controller combos. A Combo with no codes is never held.
	Codes []uint16

	// Source is the device the codes belong to.
	Source Source

	// Text is the normalized text the combo was parsed from.
	Text string
}

// IssueKind categorizes a problem found while parsing combo text.
type IssueKind int

const (
	// UnrecognizedToken means a token is neither a key nor a button.
	// The token is dropped from its combo.
	UnrecognizedToken IssueKind = iota

	// MixedSources means a combo contains both keyboard and controller
	// tokens. The combo is disabled.
	MixedSources
)

func (o IssueKind) String() string {
	switch o {
	case UnrecognizedToken:
		return "unrecognized token"
	case MixedSources:
		return "mixed keyboard and controller tokens"
	default:
		return fmt.Sprintf("unknown issue (%d)", int(o))
	}
}

// Issue is a non-fatal problem found while parsing combo text.
type Issue struct {
	Kind  IssueKind
	Combo string
	Token string
}

func (o Issue) String() string {
	if o.Token == "" {
		return fmt.Sprintf("combo %q: %s", o.Combo, o.Kind)
	}

	return fmt.Sprintf("combo %q: %s %q", o.Combo, o.Kind, o.Token)
}

// Normalize removes all whitespace from text and lowercases it.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, text)
}

// Parse parses comma-separated alternative combos. Parsing never fails.
// Problems are reported as Issues, and the affected combos degrade
// to never being held.
func Parse(text string) ([]Combo, []Issue) {
	normalized := Normalize(text)

	var combos []Combo
	var issues []Issue

	for _, comboText := range strings.Split(normalized, ",") {
		combo := Combo{
			Text: comboText,
		}

		hasKeyboard := false
		hasController := false

		for _, token := range strings.Split(comboText, "+") {
			if token == "" {
				continue
			}

			if code, isKey := KeyCode(token); isKey {
				combo.Codes = append(combo.Codes, code)
				hasKeyboard = true
				continue
			}

			if bit, isButton := ButtonBit(token); isButton {
				combo.Codes = append(combo.Codes, bit)
				hasController = true
				continue
			}

			issues = append(issues, Issue{
				Kind:  UnrecognizedToken,
				Combo: comboText,
				Token: token,
			})
		}

		switch {
		case hasKeyboard && hasController:
			combo.Codes = nil
			issues = append(issues, Issue{
				Kind:  MixedSources,
				Combo: comboText,
			})
		case hasController:
			combo.Source = Controller
		}

		combos = append(combos, combo)
	}

	return combos, issues
}
