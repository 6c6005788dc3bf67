package tui

// Result is the outcome of a dialog. Cancellation (escape) is a first-class
// successful outcome, never an error.
type Result struct {
	Cancelled bool
	Value     string // select: chosen value; input: buffer
	Index     int    // select: chosen selectable index
	Confirmed bool   // confirm: final boolean
}

// Dialog is a modal state machine. HandleKey applies one decoded key event
// and reports whether the dialog resolved; Rows renders the framed overlay at
// the given width. The dialog stays active until enter or escape.
type Dialog interface {
	HandleKey(k Key) (done bool, res Result)
	Rows(width int) []string
}

// — select ——————————————————————————————————————————————————————————————————

// SelectDialog picks one Item out of a list of entries. Navigation wraps
// around and skips separators: the index space counts selectable items only.
type SelectDialog struct {
	Title   string
	Entries []SelectEntry
	Index   int // selectable index of the cursor
	Current int // selectable index of the currently active item, -1 for none
}

// NewSelect builds a select dialog with the cursor on initial (clamped into
// the selectable range) and no active item.
func NewSelect(title string, entries []SelectEntry, initial int) *SelectDialog {
	d := &SelectDialog{Title: title, Entries: entries, Index: initial, Current: -1}
	if n := d.selectable(); n > 0 && (d.Index < 0 || d.Index >= n) {
		d.Index = 0
	}
	return d
}

func (d *SelectDialog) selectable() int {
	n := 0
	for _, e := range d.Entries {
		if _, ok := e.(Item); ok {
			n++
		}
	}
	return n
}

func (d *SelectDialog) item(idx int) (Item, bool) {
	i := 0
	for _, e := range d.Entries {
		if item, ok := e.(Item); ok {
			if i == idx {
				return item, true
			}
			i++
		}
	}
	return Item{}, false
}

func (d *SelectDialog) HandleKey(k Key) (bool, Result) {
	n := d.selectable()
	switch k.Name {
	case "up":
		if n > 0 {
			d.Index = (d.Index - 1 + n) % n
		}
	case "down":
		if n > 0 {
			d.Index = (d.Index + 1) % n
		}
	case "enter":
		item, ok := d.item(d.Index)
		if !ok {
			return true, Result{Cancelled: true}
		}
		return true, Result{Value: item.Value, Index: d.Index}
	case "escape":
		return true, Result{Cancelled: true}
	}
	return false, Result{}
}

func (d *SelectDialog) Rows(width int) []string {
	content := SelectContent(d.Entries, d.Index, width-borderOverhead, d.Current)
	return Frame(d.Title, content, "↑/↓ move · Enter choose · Esc cancel", width)
}

// — confirm —————————————————————————————————————————————————————————————————

// ConfirmDialog resolves to a yes/no answer.
type ConfirmDialog struct {
	Title   string
	Message string
	Yes     bool
}

// NewConfirm builds a confirm dialog with Yes preselected.
func NewConfirm(title, message string) *ConfirmDialog {
	return &ConfirmDialog{Title: title, Message: message, Yes: true}
}

func (d *ConfirmDialog) HandleKey(k Key) (bool, Result) {
	switch k.Name {
	case "left", "right", "tab":
		d.Yes = !d.Yes
	case "enter":
		return true, Result{Confirmed: d.Yes}
	case "escape":
		return true, Result{Cancelled: true}
	case "char":
		switch k.Rune {
		case 'y', 'Y':
			return true, Result{Confirmed: true}
		case 'n', 'N':
			return true, Result{Confirmed: false}
		}
	}
	return false, Result{}
}

func (d *ConfirmDialog) Rows(width int) []string {
	return Frame(d.Title, ConfirmContent(d.Message, d.Yes), "←/→ toggle · Enter confirm · Esc cancel", width)
}

// — input ———————————————————————————————————————————————————————————————————

// InputDialog collects one line of text.
type InputDialog struct {
	Title  string
	Label  string
	buffer []rune
	cursor bool
}

// NewInput builds an input dialog with an empty buffer and a visible cursor.
func NewInput(title, label string) *InputDialog {
	return &InputDialog{Title: title, Label: label, cursor: true}
}

// Value returns the current buffer contents.
func (d *InputDialog) Value() string { return string(d.buffer) }

// Blink toggles cursor visibility. Cosmetic only; driven by the app tick.
func (d *InputDialog) Blink() { d.cursor = !d.cursor }

func (d *InputDialog) HandleKey(k Key) (bool, Result) {
	switch k.Name {
	case "char":
		d.buffer = append(d.buffer, k.Rune)
	case "backspace":
		if len(d.buffer) > 0 {
			d.buffer = d.buffer[:len(d.buffer)-1]
		}
	case "enter":
		return true, Result{Value: string(d.buffer)}
	case "escape":
		return true, Result{Cancelled: true}
	}
	return false, Result{}
}

func (d *InputDialog) Rows(width int) []string {
	return Frame(d.Title, InputContent(d.Label, string(d.buffer), d.cursor), "Enter accept · Esc cancel", width)
}
