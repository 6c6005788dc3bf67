package state

import (
	"time"

	"forgeflow/internal/config"
	"forgeflow/internal/model"
)

// Snapshot is one immutable read of repository and workflow state. Every
// refresh builds a fresh value; nothing mutates it after construction.
type Snapshot struct {
	// prerequisites
	IsGitRepo             bool
	IsGhAuthenticated     bool
	IsAIProviderAvailable bool

	// configuration
	Config       *config.Config
	ConfigExists bool

	// git facts
	RepoRoot              string
	Branch                string
	BranchInfo            *model.BranchInfo
	IsOnMain              bool
	HasUncommittedChanges bool
	HasUnpushedCommits    bool
	Commits               []model.Commit // newest first, since BaseBranch
	BaseBranch            string

	// issue / workflow facts
	Issue          *model.Issue
	WorkflowStatus model.WorkflowStatus

	// PR facts
	PR                    *model.PR
	Feedback              model.Feedback
	HasActionableFeedback bool

	// UI-change facts
	HasUIChanges          bool
	IsPlaywrightAvailable bool

	// setup facts
	HasValidRemote bool
	Remote         *model.Repo
	HasLabels      bool
	HasProgress    bool

	RefreshedAt time.Time
}

// IsSetUp reports whether the repository is configured enough for workflow
// actions: a config file exists and labels are either present or not needed
// (no valid remote to hold them).
func (s *Snapshot) IsSetUp() bool {
	return s.ConfigExists && (!s.HasValidRemote || s.HasLabels)
}

// workflowStatus derives the lifecycle stage from the issue's labels
// intersected with the configured workflow label names. First match wins in
// the fixed priority order ready → in-progress → completed → blocked.
func workflowStatus(issue *model.Issue, labels config.Labels) model.WorkflowStatus {
	if issue == nil {
		return model.StatusNone
	}
	have := make(map[string]bool, len(issue.Labels))
	for _, l := range issue.Labels {
		have[l] = true
	}
	switch {
	case have[labels.Ready]:
		return model.StatusReady
	case have[labels.InProgress]:
		return model.StatusInProgress
	case have[labels.Completed]:
		return model.StatusCompleted
	case have[labels.Blocked]:
		return model.StatusBlocked
	}
	return model.StatusNone
}
