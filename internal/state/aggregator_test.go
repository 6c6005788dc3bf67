package state

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeflow/internal/branch"
	"forgeflow/internal/config"
	"forgeflow/internal/model"
	"forgeflow/internal/review"
)

// — stubs ———————————————————————————————————————————————————————————————————

type stubRepo struct {
	isRepo     bool
	branchName string
	base       string
	dirty      bool
	unpushed   bool
	commits    []model.Commit
	lastCommit time.Time
	remote     *model.Repo
}

func (s *stubRepo) IsRepo() bool                          { return s.isRepo }
func (s *stubRepo) Root() (string, error)                 { return "/repo", nil }
func (s *stubRepo) CurrentBranch() (string, error)        { return s.branchName, nil }
func (s *stubRepo) DefaultBranch() string                 { return s.base }
func (s *stubRepo) HasUncommittedChanges() (bool, error)  { return s.dirty, nil }
func (s *stubRepo) HasUnpushedCommits() (bool, error)     { return s.unpushed, nil }
func (s *stubRepo) LastCommitTime() (time.Time, error)    { return s.lastCommit, nil }
func (s *stubRepo) RemoteRepo() (*model.Repo, error)      { return s.remote, nil }
func (s *stubRepo) CommitsSince(string) ([]model.Commit, error) {
	return s.commits, nil
}

type stubForge struct {
	authCalls  atomic.Int32
	labelCalls atomic.Int32
	issueCalls atomic.Int32
	prCalls    atomic.Int32

	authenticated bool
	issue         *model.Issue
	issueErr      error
	pr            *model.PR
	prErr         error
	reviewData    *model.ReviewData
	labels        bool
	labelsErr     error
}

func (s *stubForge) Authenticated() bool {
	s.authCalls.Add(1)
	return s.authenticated
}

func (s *stubForge) Issue(int) (*model.Issue, error) {
	s.issueCalls.Add(1)
	return s.issue, s.issueErr
}

func (s *stubForge) PRForBranch(string) (*model.PR, error) {
	s.prCalls.Add(1)
	return s.pr, s.prErr
}

func (s *stubForge) ReviewData(int) (*model.ReviewData, error) {
	return s.reviewData, nil
}

func (s *stubForge) LabelsExist([]string) (bool, error) {
	s.labelCalls.Add(1)
	return s.labels, s.labelsErr
}

type stubUI struct {
	playwrightCalls atomic.Int32
	files           []string
	playwright      bool
}

func (s *stubUI) ChangedFiles(string) ([]string, error) { return s.files, nil }
func (s *stubUI) PlaywrightAvailable() bool {
	s.playwrightCalls.Add(1)
	return s.playwright
}

type fixture struct {
	agg           *Aggregator
	repo          *stubRepo
	forge         *stubForge
	ui            *stubUI
	providerCalls *atomic.Int32
}

func newFixture() *fixture {
	repo := &stubRepo{
		isRepo:     true,
		branchName: "ro/feature-123-add-login",
		base:       "main",
		lastCommit: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		remote:     &model.Repo{Owner: "ro", Name: "app"},
	}
	fg := &stubForge{authenticated: true, labels: true}
	ui := &stubUI{playwright: true}
	var providerCalls atomic.Int32

	agg := &Aggregator{
		Repo:         repo,
		Forge:        fg,
		UI:           ui,
		ConfigExists: func(string) bool { return true },
		LoadConfig:   func(string) *config.Config { return config.Default() },
		ParseBranch:  branch.Parse,
		IssueNumber:  branch.IssueNumber,
		Summarize:    review.Summarize,
		ProviderAvailable: func(string) bool {
			providerCalls.Add(1)
			return true
		},
		ProgressExists: func(string, *config.Config) bool { return false },
		Cache:          NewEnvCache(),
	}
	return &fixture{agg: agg, repo: repo, forge: fg, ui: ui, providerCalls: &providerCalls}
}

// — tests ———————————————————————————————————————————————————————————————————

func TestAggregateOutsideRepository(t *testing.T) {
	f := newFixture()
	f.repo.isRepo = false

	snap := f.agg.Aggregate()
	assert.False(t, snap.IsGitRepo)
	assert.False(t, snap.IsGhAuthenticated)
	assert.NotNil(t, snap.Config, "config always resolves, defaults outside a repo")
	assert.Equal(t, int32(0), f.forge.authCalls.Load(), "no collaborator calls outside a repo")
}

func TestEnvironmentChecksRunOncePerSession(t *testing.T) {
	f := newFixture()

	f.agg.Aggregate()
	f.agg.Aggregate()
	f.agg.Aggregate()

	assert.Equal(t, int32(1), f.forge.authCalls.Load())
	assert.Equal(t, int32(1), f.providerCalls.Load())
	assert.Equal(t, int32(1), f.forge.labelCalls.Load())
	assert.Equal(t, int32(1), f.ui.playwrightCalls.Load())

	f.agg.ResetCache()
	f.agg.Aggregate()
	assert.Equal(t, int32(2), f.forge.authCalls.Load(), "reset re-arms the probes")
	assert.Equal(t, int32(2), f.providerCalls.Load())
}

func TestEachRefreshBuildsAFreshSnapshot(t *testing.T) {
	f := newFixture()
	a := f.agg.Aggregate()
	b := f.agg.Aggregate()
	require.NotSame(t, a, b)
}

func TestGitFacts(t *testing.T) {
	f := newFixture()
	f.repo.dirty = true
	f.repo.commits = []model.Commit{{Hash: "abc", Subject: "wip"}}

	snap := f.agg.Aggregate()
	assert.True(t, snap.IsGitRepo)
	assert.Equal(t, "ro/feature-123-add-login", snap.Branch)
	assert.False(t, snap.IsOnMain)
	assert.True(t, snap.HasUncommittedChanges)
	assert.Equal(t, "main", snap.BaseBranch)
	assert.True(t, snap.HasValidRemote)
	require.NotNil(t, snap.BranchInfo)
	assert.Equal(t, 123, snap.BranchInfo.Number)
}

func TestOnMainSkipsBranchWork(t *testing.T) {
	f := newFixture()
	f.repo.branchName = "main"

	snap := f.agg.Aggregate()
	assert.True(t, snap.IsOnMain)
	assert.Nil(t, snap.Issue)
	assert.Nil(t, snap.PR)
	assert.Equal(t, int32(0), f.forge.issueCalls.Load())
	assert.Equal(t, int32(0), f.forge.prCalls.Load())
}

func TestIssueFetchFailureDegradesQuietly(t *testing.T) {
	f := newFixture()
	f.forge.issueErr = errors.New("network down")
	f.forge.pr = &model.PR{Number: 7, State: "open"}

	snap := f.agg.Aggregate()
	assert.Nil(t, snap.Issue, "failed fetch degrades to absence")
	require.NotNil(t, snap.PR, "other fetches are unaffected")
	assert.Equal(t, 7, snap.PR.Number)
}

func TestUnparseableBranchSkipsIssueFetch(t *testing.T) {
	f := newFixture()
	f.repo.branchName = "scratch"

	snap := f.agg.Aggregate()
	assert.False(t, snap.IsOnMain)
	assert.Equal(t, int32(0), f.forge.issueCalls.Load())
	assert.Nil(t, snap.Issue)
}

func TestLabelCheckFailureMeansMissing(t *testing.T) {
	f := newFixture()
	f.forge.labelsErr = errors.New("gh exploded")

	snap := f.agg.Aggregate()
	assert.False(t, snap.HasLabels)
}

func TestNoRemoteSkipsLabelCheck(t *testing.T) {
	f := newFixture()
	f.repo.remote = nil

	snap := f.agg.Aggregate()
	assert.False(t, snap.HasValidRemote)
	assert.Equal(t, int32(0), f.forge.labelCalls.Load())
}

func TestWorkflowStatusPriority(t *testing.T) {
	f := newFixture()
	cases := []struct {
		labels []string
		want   model.WorkflowStatus
	}{
		{[]string{"ready"}, model.StatusReady},
		{[]string{"blocked", "in-progress"}, model.StatusInProgress},
		{[]string{"completed", "blocked"}, model.StatusCompleted},
		{[]string{"blocked"}, model.StatusBlocked},
		{[]string{"bug", "p1"}, model.StatusNone},
		{nil, model.StatusNone},
	}
	for _, tc := range cases {
		f.forge.issue = &model.Issue{Number: 123, Labels: tc.labels}
		snap := f.agg.Aggregate()
		assert.Equalf(t, tc.want, snap.WorkflowStatus, "labels %v", tc.labels)
	}
}

func TestFeedbackOlderThanLastCommitIsNotActionable(t *testing.T) {
	f := newFixture()
	f.forge.pr = &model.PR{Number: 7, State: "open"}
	f.forge.reviewData = &model.ReviewData{Comments: []model.ReviewComment{
		{Body: "old nit", CreatedAt: f.repo.lastCommit.Add(-time.Hour)},
		{Body: "new concern", CreatedAt: f.repo.lastCommit.Add(time.Hour)},
	}}

	snap := f.agg.Aggregate()
	assert.True(t, snap.HasActionableFeedback)
	require.Len(t, snap.Feedback.Items, 1)
	assert.Equal(t, "new concern", snap.Feedback.Items[0].Body)
}

func TestClosedPRSkipsFeedback(t *testing.T) {
	f := newFixture()
	f.forge.pr = &model.PR{Number: 7, State: "merged"}
	f.forge.reviewData = &model.ReviewData{Comments: []model.ReviewComment{
		{Body: "late", CreatedAt: f.repo.lastCommit.Add(time.Hour)},
	}}

	snap := f.agg.Aggregate()
	assert.False(t, snap.HasActionableFeedback)
	assert.Empty(t, snap.Feedback.Items)
}

func TestUIChangeDetection(t *testing.T) {
	f := newFixture()
	f.ui.files = []string{"server/handler.go", "web/components/Login.tsx"}

	snap := f.agg.Aggregate()
	assert.True(t, snap.HasUIChanges)
	assert.True(t, snap.IsPlaywrightAvailable)
}

func TestSetProviderOverridesAndReprobes(t *testing.T) {
	f := newFixture()
	f.agg.Aggregate()
	require.Equal(t, int32(1), f.providerCalls.Load())

	f.agg.SetProvider("codex")
	snap := f.agg.Aggregate()
	assert.Equal(t, "codex", snap.Config.Provider)
	assert.Equal(t, int32(2), f.providerCalls.Load(), "switching re-arms only the provider probe")
	assert.Equal(t, int32(1), f.forge.authCalls.Load())
}
