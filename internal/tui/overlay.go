package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayTop is the fixed row offset at which dialogs are painted.
const overlayTop = 2

// Compose splices overlay rows into base rows at the given top/left offset.
// Base rows outside the overlay rectangle come through untouched; within it,
// the base content left and right of the rectangle is preserved using
// style-aware slicing. The result repaints as a whole — no diffing.
func Compose(base, overlay []string, top, left, width int) []string {
	height := top + len(overlay)
	out := make([]string, 0, max(len(base), height))
	out = append(out, base...)
	for len(out) < height {
		out = append(out, "")
	}

	for i, row := range overlay {
		line := out[top+i]
		lhs := pad(ansi.Truncate(line, left, ""), left)
		rhs := ansi.TruncateLeft(line, left+width, "")
		out[top+i] = lhs + row + rhs
	}
	return out
}

// composeDialog centres dialog rows horizontally on the screen and overlays
// them at the fixed top offset.
func composeDialog(screen string, dialog []string, termWidth, dialogWidth int) string {
	left := (termWidth - dialogWidth) / 2
	if left < 0 {
		left = 0
	}
	merged := Compose(strings.Split(screen, "\n"), dialog, overlayTop, left, dialogWidth)
	return strings.Join(merged, "\n")
}
