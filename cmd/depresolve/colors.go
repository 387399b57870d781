package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/willibrandon/depresolve/graph"
)

// Color scheme for a resolved graph's node dispositions: Accepted reads
// like a success, Rejected like an error, Cycle and
// PotentiallyDowngraded like warnings worth a second look.
var (
	colorAccepted   = color.New(color.FgGreen)
	colorRejected   = color.New(color.FgRed)
	colorCycle      = color.New(color.FgYellow)
	colorDowngraded = color.New(color.FgYellow)
	colorHeader     = color.New(color.Bold, color.FgWhite)
	colorDim        = color.New(color.FgHiBlack)
)

func init() {
	if !isColorEnabled() {
		color.NoColor = true
	}
}

// isColorEnabled mirrors a console app's usual rule: disable color when
// stdout isn't a terminal, or NO_COLOR is set, or TERM says dumb.
func isColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if term := os.Getenv("TERM"); term == "dumb" {
		return false
	}
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func dispositionColor(d graph.Disposition) *color.Color {
	switch d {
	case graph.Accepted:
		return colorAccepted
	case graph.Rejected:
		return colorRejected
	case graph.Cycle:
		return colorCycle
	case graph.PotentiallyDowngraded:
		return colorDowngraded
	default:
		return colorDim
	}
}
