// Package action maps a state snapshot to the ordered list of available
// dashboard actions.
package action

import "forgeflow/internal/state"

// ID names one dashboard action. The set is closed.
type ID string

const (
	Create         ID = "create"
	List           ID = "list"
	Commit         ID = "commit"
	Push           ID = "push"
	PR             ID = "pr"
	Run            ID = "run"
	Fix            ID = "fix"
	Video          ID = "video"
	CheckoutMain   ID = "checkout-main"
	SwitchProvider ID = "switch-provider"
	Refresh        ID = "refresh"
	Init           ID = "init"
	SetupLabels    ID = "setup-labels"
	GithubRemote   ID = "github-remote"
	Quit           ID = "quit"
)

// Action is one menu entry. Shortcuts are assigned per id and are distinct
// across the whole id set, so any rendered menu has pairwise distinct keys.
type Action struct {
	ID       ID
	Label    string
	Shortcut string
}

var defs = map[ID]Action{
	Create:         {Create, "Create issue", "n"},
	List:           {List, "List issues", "l"},
	Commit:         {Commit, "Commit changes", "c"},
	Push:           {Push, "Push commits", "p"},
	PR:             {PR, "Open pull request", "o"},
	Run:            {Run, "Implement with assistant", "a"},
	Fix:            {Fix, "Fix review feedback", "f"},
	Video:          {Video, "Record demo video", "v"},
	CheckoutMain:   {CheckoutMain, "Back to main", "m"},
	SwitchProvider: {SwitchProvider, "Switch provider", "s"},
	Refresh:        {Refresh, "Refresh", "r"},
	Init:           {Init, "Initialise config", "i"},
	SetupLabels:    {SetupLabels, "Set up workflow labels", "u"},
	GithubRemote:   {GithubRemote, "Create GitHub remote", "g"},
	Quit:           {Quit, "Quit", "q"},
}

// Available is the pure decision function from snapshot to menu. Identical
// snapshots yield identical, order-stable output, and the list is never empty
// once prerequisites hold: quit is the unconditional terminal fallback.
//
// Setup-gate actions come first so a misconfigured repository cannot offer a
// workflow action that would fail mid-flight; feature-branch actions follow
// the natural sequence commit → push → PR → implement → fix → demo.
func Available(s *state.Snapshot) []Action {
	if !s.IsGitRepo || !s.IsGhAuthenticated {
		return []Action{defs[Quit]}
	}

	var out []Action
	add := func(id ID) { out = append(out, defs[id]) }

	if !s.ConfigExists {
		add(Init)
	}
	if s.ConfigExists && s.HasValidRemote && !s.HasLabels {
		add(SetupLabels)
	}
	if s.IsSetUp() && s.HasValidRemote {
		add(Create)
	}

	featureBranch := !s.IsOnMain
	if featureBranch {
		if s.HasUncommittedChanges {
			add(Commit)
		}
		// Uncommitted changes block push surfacing: commit first.
		if s.HasUnpushedCommits && !s.HasUncommittedChanges && len(s.Commits) > 0 {
			add(Push)
		}
		if s.IsSetUp() && s.HasValidRemote && s.PR == nil && len(s.Commits) > 0 {
			add(PR)
		}
		if s.IsSetUp() && s.Issue != nil && (s.PR == nil || s.PR.State != "merged") {
			add(Run)
		}
		if s.PR != nil && s.PR.State == "open" && s.HasActionableFeedback {
			add(Fix)
		}
		if s.HasUIChanges && s.IsPlaywrightAvailable {
			add(Video)
		}
		if s.PR != nil && s.PR.State == "merged" {
			add(CheckoutMain)
		}
	}

	if s.IsSetUp() && s.HasValidRemote {
		add(List)
	}
	if !s.HasValidRemote {
		add(GithubRemote)
	}

	add(Refresh)
	add(SwitchProvider)
	add(Quit)
	return out
}

// ByShortcut finds the action bound to key within a menu.
func ByShortcut(menu []Action, key string) (Action, bool) {
	for _, a := range menu {
		if a.Shortcut == key {
			return a, true
		}
	}
	return Action{}, false
}
