// Package branch parses work-branch names of the form
// <author>/<type>-<issue>-<slug>, e.g. "ro/feature-123-add-login".
package branch

import (
	"regexp"
	"strconv"
	"strings"

	"forgeflow/internal/model"
)

var (
	namePattern   = regexp.MustCompile(`^([a-z0-9-]+)/([a-z]+)-(\d+)(?:-(.+))?$`)
	numberPattern = regexp.MustCompile(`(?:^|[/-])(\d+)(?:[/-]|$)`)
)

// Parse returns the structured form of a work branch name, or nil when the
// name does not follow the convention.
func Parse(name string) *model.BranchInfo {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}
	return &model.BranchInfo{
		Author: m[1],
		Type:   m[2],
		Number: n,
		Slug:   m[4],
	}
}

// IssueNumber extracts the linked issue number from a branch name. It is more
// lenient than Parse: any dash- or slash-delimited run of digits counts.
// Returns 0 when no number is present.
func IssueNumber(name string) int {
	if info := Parse(name); info != nil {
		return info.Number
	}
	m := numberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Slug normalises an issue title into a branch slug.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
