package common

import (
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"golang.org/x/term"
)

// DefaultParamEnricher is the flag derivation chain shared by every t3r
// subcommand: bools need no value, long and short names come from the
// field name.
func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// TermWidth returns the terminal width, or a default if unavailable.
func TermWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120 // default
	}
	return width
}
