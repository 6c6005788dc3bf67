package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Pure text-layout functions for modal frames. Every row they emit has a
// visible width (styling escapes ignored) equal to the declared target,
// padded with spaces or cut with a single trailing ellipsis.

const (
	maxModalWidth = 60
	minModalWidth = 24

	// "│ " on the left, " │" on the right
	borderOverhead = 4

	ellipsis = "…"
)

// ModalWidth bounds all dialog widths for the given terminal width.
func ModalWidth(termWidth int) int {
	if termWidth <= 0 {
		return maxModalWidth
	}
	w := termWidth - 8
	if w > maxModalWidth {
		w = maxModalWidth
	}
	if w < minModalWidth {
		w = minModalWidth
	}
	return w
}

// VisibleWidth measures a string in terminal cells: styling escapes are
// stripped first, then runes are counted by their cell width.
func VisibleWidth(s string) int { return runewidth.StringWidth(ansi.Strip(s)) }

// Truncate cuts s to at most max cells, ending in exactly one ellipsis when
// anything was removed.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if VisibleWidth(s) <= max {
		return s
	}
	return ansi.Truncate(s, max, ellipsis)
}

// pad right-pads s with spaces to exactly w cells.
func pad(s string, w int) string {
	if d := w - VisibleWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

// Frame wraps content rows in a bordered modal box. The title is embedded in
// the top border and the footer in the bottom one; content rows are padded or
// truncated to the interior width. Row layout: top, blank, content, blank
// (only when content is non-empty), divider, bottom.
func Frame(title string, content []string, footer string, width int) []string {
	inner := width - borderOverhead

	row := func(s string) string {
		return borderStyle.Render("│") + " " + pad(Truncate(s, inner), inner) + " " + borderStyle.Render("│")
	}

	rows := []string{
		edge("╭", "╮", titleStyle.Render(Truncate(title, width-6)), width),
		row(""),
	}
	for _, line := range content {
		rows = append(rows, row(line))
	}
	if len(content) > 0 {
		rows = append(rows, row(""))
	}
	rows = append(rows,
		borderStyle.Render("├"+strings.Repeat("─", width-2)+"┤"),
		edge("╰", "╯", dimStyle.Render(Truncate(footer, width-6)), width),
	)
	return rows
}

// edge builds a horizontal border with an optional embedded text segment:
// "╭─ Title ────╮". Without text it is a plain rule.
func edge(open, close, text string, width int) string {
	tw := VisibleWidth(text)
	if tw == 0 {
		return borderStyle.Render(open + strings.Repeat("─", width-2) + close)
	}
	fill := width - 5 - tw
	if fill < 0 {
		fill = 0
	}
	return borderStyle.Render(open+"─ ") + text + " " + borderStyle.Render(strings.Repeat("─", fill)+close)
}

// SelectEntry is one row of a select dialog: either a selectable Item or a
// non-selectable Separator.
type SelectEntry interface{ selectEntry() }

// Item is a selectable entry resolving to Value.
type Item struct {
	Name  string
	Value string
}

// Separator is a dimmed grouping row, excluded from the selectable index
// space.
type Separator struct {
	Label string
}

func (Item) selectEntry()      {}
func (Separator) selectEntry() {}

// SelectContent renders select-dialog rows. Selectable rows count their own
// index space: separators never consume an index and never carry an
// indicator. The row at selected carries the primary "> " indicator; the row
// at current (pass -1 for none) carries the secondary marker for "currently
// active" as opposed to "cursor-highlighted".
func SelectContent(entries []SelectEntry, selected, width, current int) []string {
	rows := make([]string, 0, len(entries))
	idx := 0
	for _, e := range entries {
		switch e := e.(type) {
		case Separator:
			rows = append(rows, dimStyle.Render(Truncate("── "+e.Label, width)))
		case Item:
			name := Truncate(e.Name, width-2)
			switch idx {
			case selected:
				rows = append(rows, boldStyle.Render("> "+name))
			case current:
				rows = append(rows, okStyle.Render("• ")+name)
			default:
				rows = append(rows, "  "+name)
			}
			idx++
		}
	}
	return rows
}

// ConfirmContent renders confirm-dialog rows; exactly one of Yes/No carries
// the selection indicator.
func ConfirmContent(message string, yesSelected bool) []string {
	yes, no := "  Yes", "  No"
	if yesSelected {
		yes = boldStyle.Render("> Yes")
	} else {
		no = boldStyle.Render("> No")
	}
	return []string{message, "", yes, no}
}

// InputContent renders input-dialog rows with an inline block cursor toggled
// for the blink effect.
func InputContent(label, value string, cursorVisible bool) []string {
	cursor := " "
	if cursorVisible {
		cursor = "█"
	}
	return []string{labelStyle.Render(label), "", "> " + value + cursor}
}

// padToWidth exposes exact-width padding for dashboard rows.
func padToWidth(s string, w int) string { return pad(Truncate(s, w), w) }
