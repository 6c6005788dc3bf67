package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenRows(n, w int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = strings.Repeat("abcdefghij", w/10+1)[:w]
	}
	return rows
}

func TestComposePreservesRowsOutsideOverlay(t *testing.T) {
	base := screenRows(10, 40)
	overlay := []string{"XXXX", "YYYY"}

	got := Compose(base, overlay, 3, 10, 4)
	require.Len(t, got, 10)

	for i := range got {
		if i == 3 || i == 4 {
			continue
		}
		assert.Equalf(t, base[i], got[i], "row %d outside the overlay changed", i)
	}
}

func TestComposeSplicesWithinRows(t *testing.T) {
	base := []string{"0123456789"}
	got := Compose(base, []string{"XX"}, 0, 4, 2)
	require.Len(t, got, 1)
	assert.Equal(t, "0123XX6789", got[0])
}

func TestComposeExtendsShortBase(t *testing.T) {
	got := Compose([]string{"only"}, []string{"AA", "BB"}, 2, 0, 2)
	require.Len(t, got, 4)
	assert.Equal(t, "only", got[0])
	assert.Equal(t, "AA", got[2])
	assert.Equal(t, "BB", got[3])
}

func TestComposePadsShortBaseRows(t *testing.T) {
	base := []string{"ab"}
	got := Compose(base, []string{"XX"}, 0, 5, 2)
	assert.Equal(t, "ab   XX", got[0])
}

func TestComposeKeepsOverlayWidthConstant(t *testing.T) {
	base := screenRows(8, 50)
	dialog := Frame("T", []string{"hello"}, "Esc", 30)
	got := Compose(base, dialog, 1, 10, 30)
	for i := range dialog {
		assert.Equal(t, 50, VisibleWidth(got[1+i]))
	}
}
