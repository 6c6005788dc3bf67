package tui

import (
	"fmt"
	"strings"

	"forgeflow/internal/action"
	"forgeflow/internal/model"
	"forgeflow/internal/state"
)

const maxCommitRows = 5

// renderDashboard builds the full-screen dashboard for one snapshot: repo and
// branch facts, issue/PR state, warnings, and the action menu.
func renderDashboard(s *state.Snapshot, menu []action.Action, width int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("forgeflow") + "\n\n")

	row := func(lbl, val string) {
		b.WriteString("  " + labelStyle.Render(padToWidth(lbl, 10)) + val + "\n")
	}

	if !s.IsGitRepo {
		b.WriteString("  " + errStyle.Render("Not a git repository") + "\n")
		b.WriteString("\n" + renderMenu(menu))
		return b.String()
	}
	if !s.IsGhAuthenticated {
		b.WriteString("  " + errStyle.Render("gh is not authenticated — run gh auth login") + "\n")
		b.WriteString("\n" + renderMenu(menu))
		return b.String()
	}

	if s.Remote != nil {
		row("Repo", s.Remote.String())
	} else {
		row("Repo", dimStyle.Render("no GitHub remote"))
	}

	branchVal := s.Branch
	if s.IsOnMain {
		branchVal += dimStyle.Render("  (main)")
	} else if s.BranchInfo != nil {
		branchVal += dimStyle.Render(fmt.Sprintf("  #%d · %s", s.BranchInfo.Number, s.BranchInfo.Type))
	}
	row("Branch", branchVal)

	if !s.IsAIProviderAvailable {
		row("Provider", warnStyle.Render(s.Config.Provider+" not found"))
	} else {
		row("Provider", s.Config.Provider)
	}

	if s.Issue != nil {
		row("Issue", fmt.Sprintf("#%d %s", s.Issue.Number, s.Issue.Title))
		row("Status", statusLabel(s.WorkflowStatus))
	}
	if s.PR != nil {
		row("PR", fmt.Sprintf("#%d %s %s", s.PR.Number, s.PR.Title, prStateLabel(s.PR)))
		if s.PR.PipelineStatus != "" {
			row("Checks", pipelineLabel(s.PR.PipelineStatus))
		}
		if s.HasActionableFeedback {
			row("Review", warnStyle.Render(fmt.Sprintf("%d comment(s) need a response", len(s.Feedback.Items))))
		}
	}

	var warnings []string
	if s.HasUncommittedChanges {
		warnings = append(warnings, "uncommitted changes")
	}
	if s.HasUnpushedCommits {
		warnings = append(warnings, "unpushed commits")
	}
	if len(warnings) > 0 {
		row("Tree", warnStyle.Render(strings.Join(warnings, ", ")))
	}

	if !s.IsOnMain && len(s.Commits) > 0 {
		b.WriteString("\n  " + labelStyle.Render(fmt.Sprintf("Commits since %s", s.BaseBranch)) + "\n")
		for i, c := range s.Commits {
			if i == maxCommitRows {
				b.WriteString("  " + dimStyle.Render(fmt.Sprintf("… and %d more", len(s.Commits)-maxCommitRows)) + "\n")
				break
			}
			hash := c.Hash
			if len(hash) > 7 {
				hash = hash[:7]
			}
			b.WriteString("  " + dimStyle.Render(hash) + " " + Truncate(c.Subject, width-14) + "\n")
		}
	}

	b.WriteString("\n" + renderMenu(menu))
	return b.String()
}

// renderMenu lists available actions with their shortcut keys.
func renderMenu(menu []action.Action) string {
	var b strings.Builder
	b.WriteString("  " + labelStyle.Render("Actions") + "\n")
	for _, a := range menu {
		b.WriteString("  " + shortcutStyle.Render("["+a.Shortcut+"]") + " " + a.Label + "\n")
	}
	return b.String()
}

func statusLabel(ws model.WorkflowStatus) string {
	switch ws {
	case model.StatusReady:
		return okStyle.Render("ready")
	case model.StatusInProgress:
		return warnStyle.Render("in progress")
	case model.StatusCompleted:
		return dimStyle.Render("completed")
	case model.StatusBlocked:
		return errStyle.Render("blocked")
	default:
		return dimStyle.Render("—")
	}
}

func prStateLabel(pr *model.PR) string {
	switch pr.State {
	case "merged":
		return dimStyle.Render("(merged)")
	case "closed":
		return dimStyle.Render("(closed)")
	default:
		if pr.Draft {
			return dimStyle.Render("(draft)")
		}
		return okStyle.Render("(open)")
	}
}

func pipelineLabel(status string) string {
	switch status {
	case "success":
		return okStyle.Render("passing")
	case "failed":
		return errStyle.Render("failing")
	case "pending":
		return warnStyle.Render("pending")
	default:
		return dimStyle.Render(status)
	}
}
