package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeflow/internal/config"
	"forgeflow/internal/model"
	"forgeflow/internal/state"
)

// ready is a snapshot for a configured repository on a feature branch.
func ready() *state.Snapshot {
	return &state.Snapshot{
		IsGitRepo:         true,
		IsGhAuthenticated: true,
		ConfigExists:      true,
		Config:            config.Default(),
		Branch:            "ro/feature-123-add-login",
		BaseBranch:        "main",
		HasValidRemote:    true,
		Remote:            &model.Repo{Owner: "ro", Name: "app"},
		HasLabels:         true,
	}
}

func ids(menu []Action) []ID {
	out := make([]ID, len(menu))
	for i, a := range menu {
		out[i] = a.ID
	}
	return out
}

func has(menu []Action, id ID) bool {
	for _, a := range menu {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestPrerequisitesCollapseToQuit(t *testing.T) {
	for _, s := range []*state.Snapshot{
		{},
		{IsGitRepo: true},
		{IsGhAuthenticated: true},
	} {
		menu := Available(s)
		require.Len(t, menu, 1)
		assert.Equal(t, Quit, menu[0].ID)
	}
}

func TestShortcutsAreUnique(t *testing.T) {
	snaps := []*state.Snapshot{
		ready(),
		{IsGitRepo: true, IsGhAuthenticated: true, Config: config.Default()},
		func() *state.Snapshot {
			s := ready()
			s.HasUncommittedChanges = true
			s.HasUnpushedCommits = true
			s.Commits = []model.Commit{{Hash: "a"}}
			s.Issue = &model.Issue{Number: 123}
			s.PR = &model.PR{State: "open"}
			s.HasActionableFeedback = true
			s.HasUIChanges = true
			s.IsPlaywrightAvailable = true
			return s
		}(),
		func() *state.Snapshot {
			s := ready()
			s.HasValidRemote = false
			s.Remote = nil
			return s
		}(),
	}
	for _, s := range snaps {
		menu := Available(s)
		seen := map[string]ID{}
		for _, a := range menu {
			prev, dup := seen[a.Shortcut]
			require.Falsef(t, dup, "shortcut %q bound to both %s and %s", a.Shortcut, prev, a.ID)
			seen[a.Shortcut] = a.ID
		}
	}
}

func TestDeterministic(t *testing.T) {
	s := ready()
	s.HasUncommittedChanges = true
	s.Issue = &model.Issue{Number: 123}
	assert.Equal(t, Available(s), Available(s))
}

func TestQuitAlwaysPresent(t *testing.T) {
	assert.True(t, has(Available(ready()), Quit))
	assert.True(t, has(Available(&state.Snapshot{}), Quit))
}

func TestMissingConfigOffersInit(t *testing.T) {
	s := &state.Snapshot{IsGitRepo: true, IsGhAuthenticated: true, Config: config.Default()}
	menu := Available(s)
	assert.True(t, has(menu, Init))
	assert.False(t, has(menu, Create))
}

func TestMissingLabelsGateSetup(t *testing.T) {
	s := ready()
	s.HasLabels = false
	menu := Available(s)
	assert.True(t, has(menu, SetupLabels))
	// not set up until labels exist: no workflow actions
	assert.False(t, has(menu, Create))
	assert.False(t, has(menu, List))
}

func TestOnMainSetUp(t *testing.T) {
	s := ready()
	s.IsOnMain = true
	s.Branch = "main"
	menu := Available(s)
	assert.True(t, has(menu, Create))
	assert.True(t, has(menu, List))
	assert.False(t, has(menu, Commit))
	assert.False(t, has(menu, Push))
	assert.False(t, has(menu, PR))
}

func TestUncommittedChangesBlockPush(t *testing.T) {
	s := ready()
	s.HasUncommittedChanges = true
	s.HasUnpushedCommits = true
	s.Commits = []model.Commit{{Hash: "a"}}
	menu := Available(s)
	assert.True(t, has(menu, Commit))
	assert.False(t, has(menu, Push))

	s.HasUncommittedChanges = false
	menu = Available(s)
	assert.False(t, has(menu, Commit))
	assert.True(t, has(menu, Push))
}

func TestPROfferedOnceCommitsExist(t *testing.T) {
	s := ready()
	assert.False(t, has(Available(s), PR), "no commits since base")

	s.Commits = []model.Commit{{Hash: "a"}}
	assert.True(t, has(Available(s), PR))

	s.PR = &model.PR{Number: 7, State: "open"}
	assert.False(t, has(Available(s), PR), "PR already exists")
}

func TestMergedPROffersCheckoutMain(t *testing.T) {
	s := ready()
	s.PR = &model.PR{Number: 7, State: "merged"}
	menu := Available(s)
	assert.True(t, has(menu, CheckoutMain))
	assert.False(t, has(menu, Fix))
}

func TestFixRequiresOpenPRWithFeedback(t *testing.T) {
	s := ready()
	s.PR = &model.PR{Number: 7, State: "open"}
	s.HasActionableFeedback = true
	assert.True(t, has(Available(s), Fix))

	s.PR = nil
	assert.False(t, has(Available(s), Fix), "no PR, feedback flag alone must not surface fix")

	s.PR = &model.PR{Number: 7, State: "open"}
	s.HasActionableFeedback = false
	assert.False(t, has(Available(s), Fix))
}

func TestRunRequiresLinkedIssueAndUnmergedPR(t *testing.T) {
	s := ready()
	s.Issue = &model.Issue{Number: 123, Title: "Add login"}
	assert.True(t, has(Available(s), Run))

	s.PR = &model.PR{Number: 7, State: "merged"}
	assert.False(t, has(Available(s), Run))

	s.PR = &model.PR{Number: 7, State: "open"}
	assert.True(t, has(Available(s), Run))

	s.Issue = nil
	assert.False(t, has(Available(s), Run))
}

func TestVideoRequiresUIChangesAndPlaywright(t *testing.T) {
	s := ready()
	s.HasUIChanges = true
	assert.False(t, has(Available(s), Video))

	s.IsPlaywrightAvailable = true
	assert.True(t, has(Available(s), Video))

	s.HasUIChanges = false
	assert.False(t, has(Available(s), Video))
}

func TestNoRemoteOffersGithubRemote(t *testing.T) {
	s := ready()
	s.HasValidRemote = false
	s.Remote = nil
	menu := Available(s)
	assert.True(t, has(menu, GithubRemote))
	assert.False(t, has(menu, Create))
	assert.False(t, has(menu, List))
}

func TestSetupGateOrdering(t *testing.T) {
	s := ready()
	s.HasLabels = false
	s.HasUncommittedChanges = true
	got := ids(Available(s))
	require.NotEmpty(t, got)
	assert.Equal(t, SetupLabels, got[0], "setup gate must precede workflow actions")
	assert.Equal(t, Quit, got[len(got)-1])
}
