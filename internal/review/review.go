// Package review turns raw PR review data into actionable feedback.
package review

import (
	"sort"
	"time"

	"forgeflow/internal/model"
)

// Summarize reduces raw review data to the items that still need a response:
// comments newer than the last local commit. Anything older was visible when
// that commit was made and is treated as addressed. Resolved threads are
// always dropped.
func Summarize(data *model.ReviewData, after time.Time) model.Feedback {
	if data == nil {
		return model.Feedback{}
	}
	var items []model.ReviewComment
	for _, c := range data.Comments {
		if c.Resolved {
			continue
		}
		if !c.CreatedAt.After(after) {
			continue
		}
		items = append(items, c)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return model.Feedback{Items: items}
}
