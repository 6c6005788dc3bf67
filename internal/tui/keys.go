package tui

import tea "github.com/charmbracelet/bubbletea"

// Key is one decoded terminal input event. Name is a stable identifier
// ("up", "enter", "escape", ...); printable input uses Name "char" with the
// rune payload.
type Key struct {
	Name string
	Rune rune
}

// decodeKey normalises bubbletea key messages into Key events. The runtime
// delivers exactly one of these per update-loop iteration, which is the only
// suspension point in the system.
func decodeKey(msg tea.KeyMsg) Key {
	switch msg.Type {
	case tea.KeyUp:
		return Key{Name: "up"}
	case tea.KeyDown:
		return Key{Name: "down"}
	case tea.KeyLeft:
		return Key{Name: "left"}
	case tea.KeyRight:
		return Key{Name: "right"}
	case tea.KeyTab:
		return Key{Name: "tab"}
	case tea.KeyEnter:
		return Key{Name: "enter"}
	case tea.KeyEscape:
		return Key{Name: "escape"}
	case tea.KeyBackspace, tea.KeyDelete:
		return Key{Name: "backspace"}
	case tea.KeySpace:
		return Key{Name: "char", Rune: ' '}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return Key{Name: "char", Rune: msg.Runes[0]}
		}
	}
	return Key{Name: msg.String()}
}
