package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"forgeflow/internal/action"
	"forgeflow/internal/config"
	"forgeflow/internal/forge"
	"forgeflow/internal/model"
	"forgeflow/internal/state"
	"forgeflow/internal/workflow"
)

// pending names the action a resolved dialog feeds into.
type pending int

const (
	pendingNone pending = iota
	pendingCommit
	pendingCreate
	pendingRemote
	pendingPR
	pendingCheckoutMain
	pendingStartIssue
	pendingProvider
)

// — messages ————————————————————————————————————————————————————————————————

type snapshotMsg struct {
	snap *state.Snapshot
}

type issuesLoadedMsg struct {
	issues []model.Issue
	err    error
}

type actionDoneMsg struct {
	label string
	err   error

	// rearmLabels re-arms the label-existence check once the action landed,
	// applied on the update loop before the next aggregate starts.
	rearmLabels bool
}

type assistantExitedMsg struct {
	err error
}

type repoChangedMsg struct{}

type blinkMsg struct{}

// — commands ————————————————————————————————————————————————————————————————

func aggregateCmd(agg *state.Aggregator) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: agg.Aggregate()}
	}
}

// runCmd executes an external mutation off the update loop and reports back.
func runCmd(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{label: label, err: fn()}
	}
}

func loadIssuesCmd(svc forge.Service) tea.Cmd {
	return func() tea.Msg {
		issues, err := svc.OpenIssues()
		return issuesLoadedMsg{issues: issues, err: err}
	}
}

func waitRepoChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return repoChangedMsg{}
	}
}

func blinkCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}

// — model ———————————————————————————————————————————————————————————————————

// Model is the dashboard application: aggregate → decide actions → render →
// wait for one key → dispatch.
type Model struct {
	agg     *state.Aggregator
	changes <-chan struct{}

	snap *state.Snapshot
	menu []action.Action

	width   int
	height  int
	loading bool
	spin    spinner.Model
	status  string

	// queued coalesces refresh requests that arrive while an aggregate is in
	// flight; the cache re-arms below wait with it. The aggregator's cache has
	// a single writer only as long as at most one Aggregate runs at a time and
	// mutations happen between runs, so everything funnels through refresh().
	queued       bool
	forgetLabels bool
	newProvider  string

	dialog  Dialog
	pending pending
	issues  []model.Issue
}

// New builds the dashboard model. changes may be nil to disable auto-refresh.
func New(agg *state.Aggregator, changes <-chan struct{}) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = dimStyle
	return Model{
		agg:     agg,
		changes: changes,
		loading: true,
		spin:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, aggregateCmd(m.agg), waitRepoChange(m.changes))
}

func (m Model) repoRoot() string {
	if m.snap != nil && m.snap.RepoRoot != "" {
		return m.snap.RepoRoot
	}
	return "."
}

func (m Model) cfg() *config.Config {
	if m.snap != nil && m.snap.Config != nil {
		return m.snap.Config
	}
	return config.Default()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case blinkMsg:
		if d, ok := m.dialog.(*InputDialog); ok {
			d.Blink()
			return m, blinkCmd()
		}
		return m, nil

	case snapshotMsg:
		m.loading = false
		m.snap = msg.snap
		m.menu = action.Available(msg.snap)
		if m.queued {
			m.queued = false
			return m.refresh()
		}
		return m, nil

	case repoChangedMsg:
		rearm := waitRepoChange(m.changes)
		if m.dialog != nil {
			return m, rearm
		}
		next, cmd := m.refresh()
		return next, tea.Batch(rearm, cmd)

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.label + ": " + msg.err.Error()
			return m, nil
		}
		m.status = ""
		if msg.rearmLabels {
			m.forgetLabels = true
		}
		return m.refresh()

	case assistantExitedMsg:
		return m.refresh()

	case issuesLoadedMsg:
		if msg.err != nil {
			m.status = "list issues: " + msg.err.Error()
			return m, nil
		}
		m.issues = msg.issues
		m.dialog = NewSelect("Open issues", issueEntries(msg.issues, m.cfg().Labels), 0)
		m.pending = pendingStartIssue
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(decodeKey(msg))
	}
	return m, nil
}

// refresh starts one aggregate at most. A request arriving while a previous
// aggregate is still in flight is queued and runs when the snapshot lands;
// deferred cache re-arms apply here, never from a command goroutine.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.loading {
		m.queued = true
		return m, nil
	}
	if m.forgetLabels {
		m.forgetLabels = false
		m.agg.Cache.ForgetLabels()
	}
	if m.newProvider != "" {
		m.agg.SetProvider(m.newProvider)
		m.newProvider = ""
	}
	m.loading = true
	return m, aggregateCmd(m.agg)
}

// handleKey routes one decoded key event: to the active dialog when one is
// open, otherwise to the action menu shortcuts.
func (m Model) handleKey(k Key) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		done, res := m.dialog.HandleKey(k)
		if !done {
			return m, nil
		}
		d := m.dialog
		m.dialog = nil
		if res.Cancelled {
			m.pending = pendingNone
			return m, nil
		}
		return m.resolveDialog(d, res)
	}

	if k.Name != "char" || m.snap == nil {
		return m, nil
	}
	a, ok := action.ByShortcut(m.menu, string(k.Rune))
	if !ok {
		return m, nil
	}
	return m.dispatch(a)
}

// dispatch starts the chosen action: quick ones run directly, interactive
// ones open a dialog first.
func (m Model) dispatch(a action.Action) (tea.Model, tea.Cmd) {
	root := m.repoRoot()
	cfg := m.cfg()
	svc := forge.Service{Dir: root}

	switch a.ID {
	case action.Quit:
		return m, tea.Quit

	case action.Refresh:
		m.status = ""
		return m.refresh()

	case action.Init:
		return m, runCmd("init", func() error { return config.Write(root) })

	case action.SetupLabels:
		labels := cfg.Labels.All()
		return m, func() tea.Msg {
			return actionDoneMsg{label: "setup labels", rearmLabels: true, err: svc.CreateLabels(labels)}
		}

	case action.Create:
		m.dialog = NewInput("New issue", "Issue title")
		m.pending = pendingCreate
		return m, blinkCmd()

	case action.Commit:
		m.dialog = NewInput("Commit changes", "Commit message")
		m.pending = pendingCommit
		return m, blinkCmd()

	case action.Push:
		branchName := m.snap.Branch
		return m, runCmd("push", func() error { return workflow.Push(root, branchName) })

	case action.PR:
		m.dialog = NewConfirm("Open pull request",
			fmt.Sprintf("Open a PR for %s against %s?", m.snap.Branch, m.snap.BaseBranch))
		m.pending = pendingPR
		return m, nil

	case action.Run:
		prompt := workflow.ImplementPrompt(cfg, m.snap.Issue, m.snap.HasProgress)
		return m, tea.ExecProcess(workflow.AssistantCmd(root, cfg, prompt), func(err error) tea.Msg {
			return assistantExitedMsg{err: err}
		})

	case action.Fix:
		prompt := workflow.FixPrompt(m.snap.Feedback)
		return m, tea.ExecProcess(workflow.AssistantCmd(root, cfg, prompt), func(err error) tea.Msg {
			return assistantExitedMsg{err: err}
		})

	case action.Video:
		return m, tea.ExecProcess(workflow.VideoCmd(root, cfg), func(err error) tea.Msg {
			return assistantExitedMsg{err: err}
		})

	case action.CheckoutMain:
		m.dialog = NewConfirm("Back to main",
			fmt.Sprintf("PR is merged. Switch to %s and pull?", m.snap.BaseBranch))
		m.pending = pendingCheckoutMain
		return m, nil

	case action.List:
		m.status = ""
		return m, loadIssuesCmd(svc)

	case action.SwitchProvider:
		d := NewSelect("Switch provider", providerEntries(cfg.Providers), 0)
		d.Current = providerIndex(cfg.Providers, cfg.Provider)
		if d.Current >= 0 {
			d.Index = d.Current
		}
		m.dialog = d
		m.pending = pendingProvider
		return m, nil

	case action.GithubRemote:
		m.dialog = NewInput("Create GitHub remote", "Repository name")
		m.pending = pendingRemote
		return m, blinkCmd()
	}
	return m, nil
}

// resolveDialog feeds a dialog result into the action that opened it.
func (m Model) resolveDialog(_ Dialog, res Result) (tea.Model, tea.Cmd) {
	p := m.pending
	m.pending = pendingNone
	root := m.repoRoot()
	cfg := m.cfg()
	svc := forge.Service{Dir: root}

	switch p {
	case pendingCommit:
		msg := strings.TrimSpace(res.Value)
		if msg == "" {
			m.status = "commit message cannot be empty"
			return m, nil
		}
		return m, runCmd("commit", func() error { return workflow.Commit(root, msg) })

	case pendingCreate:
		title := strings.TrimSpace(res.Value)
		if title == "" {
			m.status = "issue title cannot be empty"
			return m, nil
		}
		ready := cfg.Labels.Ready
		return m, runCmd("create issue", func() error {
			_, err := svc.CreateIssue(title, ready)
			return err
		})

	case pendingRemote:
		name := strings.TrimSpace(res.Value)
		if name == "" {
			m.status = "repository name cannot be empty"
			return m, nil
		}
		return m, runCmd("create remote", func() error { return svc.CreateRemote(name) })

	case pendingPR:
		if !res.Confirmed {
			return m, nil
		}
		title, base := prTitle(m.snap), m.snap.BaseBranch
		return m, runCmd("open PR", func() error { return svc.CreatePR(title, base) })

	case pendingCheckoutMain:
		if !res.Confirmed {
			return m, nil
		}
		base := m.snap.BaseBranch
		return m, runCmd("checkout main", func() error { return workflow.CheckoutMain(root, base) })

	case pendingStartIssue:
		n, err := strconv.Atoi(res.Value)
		if err != nil {
			return m, nil
		}
		for _, issue := range m.issues {
			if issue.Number == n {
				author := workflow.BranchAuthor(root)
				return m, runCmd("start issue", func() error {
					_, err := workflow.StartIssue(root, author, issue)
					return err
				})
			}
		}
		return m, nil

	case pendingProvider:
		m.newProvider = res.Value
		return m.refresh()
	}
	return m, nil
}

// prTitle picks a PR title: the linked issue's title, else the newest commit
// subject, else the branch name.
func prTitle(s *state.Snapshot) string {
	switch {
	case s.Issue != nil:
		return s.Issue.Title
	case len(s.Commits) > 0:
		return s.Commits[0].Subject
	default:
		return s.Branch
	}
}

// issueEntries groups open issues by workflow stage with separator rows.
func issueEntries(issues []model.Issue, labels config.Labels) []SelectEntry {
	groups := []struct {
		label  string
		status model.WorkflowStatus
	}{
		{"Ready", model.StatusReady},
		{"In progress", model.StatusInProgress},
		{"Blocked", model.StatusBlocked},
		{"Unlabelled", model.StatusNone},
	}

	byStatus := make(map[model.WorkflowStatus][]model.Issue)
	for _, issue := range issues {
		st := issueStatus(issue, labels)
		byStatus[st] = append(byStatus[st], issue)
	}

	var entries []SelectEntry
	for _, g := range groups {
		group := byStatus[g.status]
		if len(group) == 0 {
			continue
		}
		entries = append(entries, Separator{Label: g.label})
		for _, issue := range group {
			entries = append(entries, Item{
				Name:  fmt.Sprintf("#%d %s", issue.Number, issue.Title),
				Value: strconv.Itoa(issue.Number),
			})
		}
	}
	return entries
}

// issueStatus mirrors the snapshot's label-priority derivation for one issue.
func issueStatus(issue model.Issue, labels config.Labels) model.WorkflowStatus {
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

func providerEntries(providers []string) []SelectEntry {
	entries := make([]SelectEntry, 0, len(providers))
	for _, p := range providers {
		entries = append(entries, Item{Name: p, Value: p})
	}
	return entries
}

func providerIndex(providers []string, current string) int {
	for i, p := range providers {
		if p == current {
			return i
		}
	}
	return -1
}

// — view ————————————————————————————————————————————————————————————————————

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.snap == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.spin.View() + " Reading repository state…")
	}

	base := "\n" + renderDashboard(m.snap, m.menu, m.width)
	if m.loading {
		base += "\n" + helpStyle.Render(m.spin.View()+" refreshing…")
	}
	if m.status != "" {
		base += "\n" + "  " + errStyle.Render(m.status)
	}

	if m.dialog != nil {
		w := ModalWidth(m.width)
		return composeDialog(base, m.dialog.Rows(w), m.width, w)
	}
	return base
}
