package model

import "time"

// WorkflowStatus is the issue lifecycle stage derived from workflow labels.
type WorkflowStatus string

const (
	StatusReady      WorkflowStatus = "ready"
	StatusInProgress WorkflowStatus = "in-progress"
	StatusCompleted  WorkflowStatus = "completed"
	StatusBlocked    WorkflowStatus = "blocked"
	StatusNone       WorkflowStatus = "none"
)

// Issue holds issue metadata fetched via gh.
type Issue struct {
	Number int
	Title  string
	State  string // "open", "closed"
	Labels []string
	URL    string
}

// PR holds pull request metadata fetched via gh.
type PR struct {
	Number         int
	Title          string
	URL            string
	State          string // "open", "merged", "closed"
	Draft          bool
	PipelineStatus string // "success", "failed", "pending", ""
}

// Commit is one entry of the branch history since the base branch,
// ordered newest-first.
type Commit struct {
	Hash    string
	Subject string
	When    time.Time
}

// ReviewComment is a single PR review comment or thread head.
type ReviewComment struct {
	Author    string
	Body      string
	Path      string
	CreatedAt time.Time
	Resolved  bool
}

// ReviewData is the raw review payload for a PR.
type ReviewData struct {
	Comments []ReviewComment
}

// Feedback is the summarized review state relative to the last local commit.
// Items older than that commit have already been addressed and are dropped.
type Feedback struct {
	Items []ReviewComment
}

// Actionable reports whether any feedback item still needs a response.
func (f Feedback) Actionable() bool { return len(f.Items) > 0 }

// BranchInfo is the parsed form of a work branch name such as
// "ro/feature-123-add-login".
type BranchInfo struct {
	Author string
	Type   string // "feature", "fix", "chore", ...
	Number int    // linked issue number
	Slug   string
}

// Repo identifies the GitHub remote, e.g. owner "ro", name "forgeflow".
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }
