package uichange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUIChanges(t *testing.T) {
	cases := []struct {
		files []string
		want  bool
	}{
		{nil, false},
		{[]string{"main.go", "internal/git/git.go"}, false},
		{[]string{"web/src/Login.tsx"}, true},
		{[]string{"styles/app.scss"}, true},
		{[]string{"src/components/Button.go"}, true},
		{[]string{"docs/ui-notes.md"}, false},
		{[]string{"a.go", "pages/index.html"}, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, HasUIChanges(tc.files), "files %v", tc.files)
	}
}
