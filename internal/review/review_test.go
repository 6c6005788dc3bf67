package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeflow/internal/model"
)

var lastCommit = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

func TestSummarizeKeepsOnlyCommentsNewerThanLastCommit(t *testing.T) {
	data := &model.ReviewData{Comments: []model.ReviewComment{
		{Body: "seen already", CreatedAt: lastCommit.Add(-time.Minute)},
		{Body: "exactly then", CreatedAt: lastCommit},
		{Body: "needs a response", CreatedAt: lastCommit.Add(time.Minute)},
	}}

	fb := Summarize(data, lastCommit)
	require.Len(t, fb.Items, 1)
	assert.Equal(t, "needs a response", fb.Items[0].Body)
	assert.True(t, fb.Actionable())
}

func TestSummarizeDropsResolvedThreads(t *testing.T) {
	data := &model.ReviewData{Comments: []model.ReviewComment{
		{Body: "done", CreatedAt: lastCommit.Add(time.Hour), Resolved: true},
	}}
	fb := Summarize(data, lastCommit)
	assert.False(t, fb.Actionable())
}

func TestSummarizeOrdersOldestFirst(t *testing.T) {
	data := &model.ReviewData{Comments: []model.ReviewComment{
		{Body: "second", CreatedAt: lastCommit.Add(2 * time.Hour)},
		{Body: "first", CreatedAt: lastCommit.Add(time.Hour)},
	}}
	fb := Summarize(data, lastCommit)
	require.Len(t, fb.Items, 2)
	assert.Equal(t, "first", fb.Items[0].Body)
}

func TestSummarizeNilData(t *testing.T) {
	fb := Summarize(nil, lastCommit)
	assert.False(t, fb.Actionable())
	assert.Empty(t, fb.Items)
}
