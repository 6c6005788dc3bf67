// Package state derives one consistent snapshot of repository and workflow
// state per refresh cycle.
package state

import (
	"time"

	"golang.org/x/sync/errgroup"

	"forgeflow/internal/branch"
	"forgeflow/internal/config"
	"forgeflow/internal/forge"
	"forgeflow/internal/git"
	"forgeflow/internal/model"
	"forgeflow/internal/review"
	"forgeflow/internal/uichange"
	"forgeflow/internal/workflow"
)

// RepoService answers questions about the local repository.
type RepoService interface {
	IsRepo() bool
	Root() (string, error)
	CurrentBranch() (string, error)
	DefaultBranch() string
	HasUncommittedChanges() (bool, error)
	HasUnpushedCommits() (bool, error)
	CommitsSince(base string) ([]model.Commit, error)
	LastCommitTime() (time.Time, error)
	RemoteRepo() (*model.Repo, error)
}

// ForgeService answers questions about the issue/PR tracker.
type ForgeService interface {
	Authenticated() bool
	Issue(number int) (*model.Issue, error)
	PRForBranch(branch string) (*model.PR, error)
	ReviewData(number int) (*model.ReviewData, error)
	LabelsExist(names []string) (bool, error)
}

// UIService detects UI changes and the tooling to demo them.
type UIService interface {
	ChangedFiles(base string) ([]string, error)
	PlaywrightAvailable() bool
}

// Aggregator gathers repository, tracker, and workflow state into snapshots.
// Pure collaborators are function fields so tests can stub them without
// interface ceremony.
type Aggregator struct {
	Repo  RepoService
	Forge ForgeService
	UI    UIService

	ConfigExists      func(root string) bool
	LoadConfig        func(root string) *config.Config
	ParseBranch       func(name string) *model.BranchInfo
	IssueNumber       func(name string) int
	Summarize         func(data *model.ReviewData, after time.Time) model.Feedback
	ProviderAvailable func(provider string) bool
	ProgressExists    func(root string, cfg *config.Config) bool

	Cache *EnvCache

	// providerOverride replaces the configured assistant for this session,
	// set by the switch-provider action.
	providerOverride string
}

// New wires an aggregator against the real collaborators, working in dir.
func New(dir string, cache *EnvCache) *Aggregator {
	if cache == nil {
		cache = NewEnvCache()
	}
	return &Aggregator{
		Repo:              git.Service{Dir: dir},
		Forge:             forge.Service{Dir: dir},
		UI:                uichange.Service{Dir: dir},
		ConfigExists:      config.Exists,
		LoadConfig:        config.Load,
		ParseBranch:       branch.Parse,
		IssueNumber:       branch.IssueNumber,
		Summarize:         review.Summarize,
		ProviderAvailable: workflow.ProviderAvailable,
		ProgressExists:    workflow.ProgressExists,
		Cache:             cache,
	}
}

// ResetCache forgets all session-stable environment checks.
func (a *Aggregator) ResetCache() { a.Cache.Reset() }

// SetProvider switches the AI assistant for the rest of the session and
// re-arms its availability probe.
func (a *Aggregator) SetProvider(provider string) {
	a.providerOverride = provider
	a.Cache.ForgetProvider()
}

// Aggregate produces a fully populated snapshot. It never fails: every
// collaborator error degrades the corresponding field to its zero value, and
// outside a repository a minimal snapshot comes back immediately.
func (a *Aggregator) Aggregate() *Snapshot {
	snap := &Snapshot{RefreshedAt: time.Now()}

	if !a.Repo.IsRepo() {
		snap.Config = config.Default()
		return snap
	}
	snap.IsGitRepo = true

	root, err := a.Repo.Root()
	if err != nil {
		root = "."
	}
	snap.RepoRoot = root
	snap.ConfigExists = a.ConfigExists(root)
	snap.Config = a.LoadConfig(root)
	if a.providerOverride != "" {
		snap.Config.Provider = a.providerOverride
	}

	a.resolveEnvironment(snap)
	a.resolveGitFacts(snap)
	a.resolveLabels(snap)

	if !snap.IsOnMain {
		a.resolveBranchWork(snap)
	}
	snap.WorkflowStatus = workflowStatus(snap.Issue, snap.Config.Labels)
	snap.HasProgress = a.ProgressExists(root, snap.Config)

	return snap
}

// resolveEnvironment fills the session-stable checks, probing each at most
// once per session.
func (a *Aggregator) resolveEnvironment(snap *Snapshot) {
	var g errgroup.Group
	var ghAuth, provider bool

	needAuth := a.Cache.ghAuthenticated == nil
	needProvider := a.Cache.providerUsable == nil

	if needAuth {
		g.Go(func() error { ghAuth = a.Forge.Authenticated(); return nil })
	}
	if needProvider {
		g.Go(func() error { provider = a.ProviderAvailable(snap.Config.Provider); return nil })
	}
	g.Wait()

	if needAuth {
		a.Cache.ghAuthenticated = set(ghAuth)
	}
	if needProvider {
		a.Cache.providerUsable = set(provider)
	}
	snap.IsGhAuthenticated = *a.Cache.ghAuthenticated
	snap.IsAIProviderAvailable = *a.Cache.providerUsable
}

// resolveGitFacts fills branch identity, dirtiness, base, and remote, then
// the commit range facts that depend on the base.
func (a *Aggregator) resolveGitFacts(snap *Snapshot) {
	var g errgroup.Group
	var branchName, baseBranch string
	var dirty bool
	var remote *model.Repo

	g.Go(func() error { branchName, _ = a.Repo.CurrentBranch(); return nil })
	g.Go(func() error { baseBranch = a.Repo.DefaultBranch(); return nil })
	g.Go(func() error { dirty, _ = a.Repo.HasUncommittedChanges(); return nil })
	g.Go(func() error { remote, _ = a.Repo.RemoteRepo(); return nil })
	g.Wait()

	if snap.Config.BaseBranch != "" {
		baseBranch = snap.Config.BaseBranch
	}
	snap.Branch = branchName
	snap.BranchInfo = a.ParseBranch(branchName)
	snap.BaseBranch = baseBranch
	snap.IsOnMain = branchName == baseBranch
	snap.HasUncommittedChanges = dirty
	snap.Remote = remote
	snap.HasValidRemote = remote != nil

	var commits []model.Commit
	var unpushed bool
	g.Go(func() error { commits, _ = a.Repo.CommitsSince(baseBranch); return nil })
	g.Go(func() error { unpushed, _ = a.Repo.HasUnpushedCommits(); return nil })
	g.Wait()

	snap.Commits = commits
	snap.HasUnpushedCommits = unpushed
}

// resolveLabels checks workflow-label existence once per session. A failed
// check counts as missing labels, never as an error.
func (a *Aggregator) resolveLabels(snap *Snapshot) {
	if !snap.HasValidRemote {
		return
	}
	if a.Cache.hasLabels == nil {
		ok, err := a.Forge.LabelsExist(snap.Config.Labels.All())
		if err != nil {
			ok = false
		}
		a.Cache.hasLabels = set(ok)
	}
	snap.HasLabels = *a.Cache.hasLabels
}

// resolveBranchWork fills the feature-branch facts: linked issue, PR status,
// UI changes, and (once per session) Playwright availability. Each fetch is
// independently fault-tolerant.
func (a *Aggregator) resolveBranchWork(snap *Snapshot) {
	var g errgroup.Group
	var issue *model.Issue
	var pr *model.PR
	var files []string
	var playwright bool

	if n := a.IssueNumber(snap.Branch); n > 0 {
		g.Go(func() error { issue, _ = a.Forge.Issue(n); return nil })
	}
	g.Go(func() error { pr, _ = a.Forge.PRForBranch(snap.Branch); return nil })
	g.Go(func() error { files, _ = a.UI.ChangedFiles(snap.BaseBranch); return nil })

	needPlaywright := a.Cache.playwrightUsable == nil
	if needPlaywright {
		g.Go(func() error { playwright = a.UI.PlaywrightAvailable(); return nil })
	}
	g.Wait()

	if needPlaywright {
		a.Cache.playwrightUsable = set(playwright)
	}
	snap.Issue = issue
	snap.PR = pr
	snap.HasUIChanges = uichange.HasUIChanges(files)
	snap.IsPlaywrightAvailable = *a.Cache.playwrightUsable

	if pr != nil && pr.State == "open" {
		snap.Feedback = a.summarizeFeedback(pr)
		snap.HasActionableFeedback = snap.Feedback.Actionable()
	}
}

// summarizeFeedback fetches review data and keeps the comments newer than the
// last local commit. Any failure yields empty feedback.
func (a *Aggregator) summarizeFeedback(pr *model.PR) model.Feedback {
	data, err := a.Forge.ReviewData(pr.Number)
	if err != nil || data == nil {
		return model.Feedback{}
	}
	lastCommit, err := a.Repo.LastCommitTime()
	if err != nil {
		return model.Feedback{}
	}
	return a.Summarize(data, lastCommit)
}
