package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRowWidths(t *testing.T) {
	content := []string{
		"short",
		boldStyle.Render("styled row"),
		strings.Repeat("x", 200),
	}
	rows := Frame("Title", content, "Esc cancel", 48)
	for i, row := range rows {
		assert.Equalf(t, 48, VisibleWidth(row), "row %d: %q", i, row)
	}
}

func TestFrameRowCount(t *testing.T) {
	content := []string{"a", "b", "c"}
	rows := Frame("T", content, "f", 40)
	assert.Len(t, rows, len(content)+5)

	rows = Frame("T", nil, "f", 40)
	assert.Len(t, rows, 4)
}

func TestFrameTruncatesWithSingleEllipsis(t *testing.T) {
	long := strings.Repeat("abc", 50)
	rows := Frame("T", []string{long}, "", 30)
	contentRow := rows[2]
	assert.Equal(t, 30, VisibleWidth(contentRow))
	assert.Equal(t, 1, strings.Count(contentRow, ellipsis))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5), "short content untouched")
	got := Truncate("abcdefgh", 5)
	assert.Equal(t, 5, VisibleWidth(got))
	assert.True(t, strings.HasSuffix(got, ellipsis))
	assert.Equal(t, 1, strings.Count(got, ellipsis))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestVisibleWidthIgnoresStyling(t *testing.T) {
	plain := "hello"
	styled := errStyle.Render(boldStyle.Render(plain))
	assert.Equal(t, VisibleWidth(plain), VisibleWidth(styled))
}

func TestModalWidth(t *testing.T) {
	assert.Equal(t, maxModalWidth, ModalWidth(0))
	assert.Equal(t, maxModalWidth, ModalWidth(200))
	assert.Equal(t, 42, ModalWidth(50))
	assert.Equal(t, minModalWidth, ModalWidth(10))
}

func TestSelectContentIndicators(t *testing.T) {
	entries := []SelectEntry{
		Separator{Label: "Ready"},
		Item{Name: "#1 first", Value: "1"},
		Item{Name: "#2 second", Value: "2"},
		Separator{Label: "Blocked"},
		Item{Name: "#3 third", Value: "3"},
	}
	rows := SelectContent(entries, 1, 40, -1)
	require.Len(t, rows, len(entries))

	// separators never carry an indicator
	assert.NotContains(t, rows[0], ">")
	assert.NotContains(t, rows[3], ">")

	// exactly one selectable row carries the primary indicator, and the
	// index space skips separators: selected index 1 is "#2 second"
	marked := 0
	for _, r := range rows {
		if strings.Contains(r, "> ") {
			marked++
		}
	}
	assert.Equal(t, 1, marked)
	assert.Contains(t, rows[2], "#2 second")
	assert.Contains(t, rows[2], "> ")
}

func TestSelectContentCurrentMarker(t *testing.T) {
	entries := []SelectEntry{
		Item{Name: "claude", Value: "claude"},
		Item{Name: "codex", Value: "codex"},
	}
	rows := SelectContent(entries, 0, 40, 1)
	assert.Contains(t, rows[0], "> ")
	assert.Contains(t, rows[1], "• ")
}

func TestConfirmContent(t *testing.T) {
	rows := ConfirmContent("Proceed?", true)
	require.Len(t, rows, 4)
	assert.Contains(t, rows[2], "> Yes")
	assert.NotContains(t, rows[3], ">")

	rows = ConfirmContent("Proceed?", false)
	assert.NotContains(t, rows[2], ">")
	assert.Contains(t, rows[3], "> No")
}

func TestInputContent(t *testing.T) {
	rows := InputContent("Commit message", "fix: thing", true)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[2], "fix: thing█")

	rows = InputContent("Commit message", "fix: thing", false)
	assert.NotContains(t, rows[2], "█")
}
