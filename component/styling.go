package component

import (
	"fmt"
	"strings"
)

// Styling selects the CSS convention a component assumes.
type Styling int

const (
	StylingNone Styling = iota
	StylingTailwind
	StylingBootstrap
)

// StylingChoices lists the interactive choices in display order.
var StylingChoices = []string{"None", "Tailwind", "Bootstrap"}

func (s Styling) String() string {
	switch s {
	case StylingTailwind:
		return "Tailwind"
	case StylingBootstrap:
		return "Bootstrap"
	default:
		return "None"
	}
}

// ParseStyling accepts the names in StylingChoices, case-insensitively.
func ParseStyling(s string) (Styling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StylingNone, nil
	case "tailwind":
		return StylingTailwind, nil
	case "bootstrap":
		return StylingBootstrap, nil
	default:
		return StylingNone, fmt.Errorf("unknown styling %q", s)
	}
}

// StylingFromFlags resolves the --tailwind/--bootstrap pair. Bootstrap takes
// precedence when both are set. The second return value reports whether
// either flag was set at all.
func StylingFromFlags(tailwind, bootstrap bool) (Styling, bool) {
	switch {
	case bootstrap:
		return StylingBootstrap, true
	case tailwind:
		return StylingTailwind, true
	default:
		return StylingNone, false
	}
}
