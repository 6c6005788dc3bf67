// Package forge talks to GitHub through the gh CLI.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"forgeflow/internal/model"
)

// Service issues gh commands for one repository.
type Service struct {
	Dir string // working directory for gh, empty for the process cwd
}

func (s Service) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	return cmd.Output()
}

// Authenticated reports whether gh has valid credentials.
func (s Service) Authenticated() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "gh", "auth", "status")
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	return cmd.Run() == nil
}

// ghIssue mirrors the fields we care about from gh's JSON output.
type ghIssue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"` // "OPEN", "CLOSED"
	URL    string `json:"url"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

func (i ghIssue) toModel() model.Issue {
	labels := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		labels = append(labels, l.Name)
	}
	return model.Issue{
		Number: i.Number,
		Title:  i.Title,
		State:  strings.ToLower(i.State),
		Labels: labels,
		URL:    i.URL,
	}
}

// Issue fetches one issue by number. Returns (nil, nil) when gh fails or the
// issue does not exist.
func (s Service) Issue(number int) (*model.Issue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.run(ctx, "issue", "view", strconv.Itoa(number),
		"--json", "number,title,state,url,labels")
	if err != nil {
		return nil, nil
	}
	var gi ghIssue
	if err := json.Unmarshal(out, &gi); err != nil {
		return nil, nil
	}
	issue := gi.toModel()
	return &issue, nil
}

// OpenIssues lists open issues, most recently updated first.
func (s Service) OpenIssues() ([]model.Issue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.run(ctx, "issue", "list", "--state", "open", "--limit", "50",
		"--json", "number,title,state,url,labels")
	if err != nil {
		return nil, fmt.Errorf("gh issue list: %w", err)
	}
	var raw []ghIssue
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("gh issue list: %w", err)
	}
	issues := make([]model.Issue, 0, len(raw))
	for _, gi := range raw {
		issues = append(issues, gi.toModel())
	}
	return issues, nil
}

// ghPR mirrors the fields we care about from gh's JSON output.
type ghPR struct {
	Number            int    `json:"number"`
	Title             string `json:"title"`
	State             string `json:"state"` // "OPEN", "MERGED", "CLOSED"
	URL               string `json:"url"`
	IsDraft           bool   `json:"isDraft"`
	StatusCheckRollup string `json:"statusCheckRollup"`
}

// PRForBranch returns the most relevant PR for the branch: the open one if
// any, otherwise the most recent. Returns (nil, nil) when gh fails or no PR
// exists.
func (s Service) PRForBranch(branch string) (*model.PR, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.run(ctx, "pr", "list",
		"--head", branch,
		"--state", "all",
		"--json", "number,title,state,url,isDraft,statusCheckRollup")
	if err != nil {
		return nil, nil
	}

	var prs []ghPR
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, nil
	}

	var found *ghPR
	for i := range prs {
		if prs[i].State == "OPEN" {
			found = &prs[i]
			break
		}
	}
	if found == nil && len(prs) > 0 {
		found = &prs[0]
	}
	if found == nil {
		return nil, nil
	}

	return &model.PR{
		Number:         found.Number,
		Title:          found.Title,
		URL:            found.URL,
		State:          prState(found.State),
		Draft:          found.IsDraft,
		PipelineStatus: ciStatus(found.StatusCheckRollup),
	}, nil
}

// ghComment mirrors gh's review comment JSON.
type ghComment struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	Body      string    `json:"body"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewData fetches review comments for a PR. Returns (nil, nil) on failure
// so aggregation can degrade to empty feedback.
func (s Service) ReviewData(number int) (*model.ReviewData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.run(ctx, "pr", "view", strconv.Itoa(number),
		"--json", "comments,reviews")
	if err != nil {
		return nil, nil
	}

	var payload struct {
		Comments []ghComment `json:"comments"`
		Reviews  []ghComment `json:"reviews"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, nil
	}

	data := &model.ReviewData{}
	for _, c := range append(payload.Comments, payload.Reviews...) {
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		data.Comments = append(data.Comments, model.ReviewComment{
			Author:    c.Author.Login,
			Body:      c.Body,
			Path:      c.Path,
			CreatedAt: c.CreatedAt,
		})
	}
	return data, nil
}

// LabelsExist reports whether every named label exists on the repo.
func (s Service) LabelsExist(names []string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := s.run(ctx, "label", "list", "--limit", "200", "--json", "name")
	if err != nil {
		return false, fmt.Errorf("gh label list: %w", err)
	}
	var raw []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		return false, fmt.Errorf("gh label list: %w", err)
	}
	have := make(map[string]bool, len(raw))
	for _, l := range raw {
		have[strings.ToLower(l.Name)] = true
	}
	for _, n := range names {
		if !have[strings.ToLower(n)] {
			return false, nil
		}
	}
	return true, nil
}

// CreateLabels creates the named labels, ignoring ones that already exist.
func (s Service) CreateLabels(names []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, n := range names {
		cmd := exec.CommandContext(ctx, "gh", "label", "create", n, "--force")
		if s.Dir != "" {
			cmd.Dir = s.Dir
		}
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("gh label create %s: %s", n, trimOutput(out))
		}
	}
	return nil
}

// CreateIssue opens a new issue carrying the given label and returns its number.
func (s Service) CreateIssue(title, label string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := []string{"issue", "create", "--title", title, "--body", ""}
	if label != "" {
		args = append(args, "--label", label)
	}
	cmd := exec.CommandContext(ctx, "gh", args...)
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("gh issue create: %s", trimOutput(out))
	}
	// gh prints the issue URL; the number is the last path segment.
	url := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		if n, err := strconv.Atoi(url[i+1:]); err == nil {
			return n, nil
		}
	}
	return 0, nil
}

// CreatePR opens a pull request for the current branch.
func (s Service) CreatePR(title, base string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", "pr", "create",
		"--title", title, "--base", base, "--body", "")
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("gh pr create: %s", trimOutput(out))
	}
	return nil
}

// CreateRemote creates a GitHub repository and wires it up as origin.
func (s Service) CreateRemote(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", "repo", "create", name,
		"--private", "--source", ".", "--remote", "origin", "--push")
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("gh repo create: %s", trimOutput(out))
	}
	return nil
}

// prState maps GitHub PR state strings to our unified model.
func prState(s string) string {
	switch s {
	case "OPEN":
		return "open"
	case "MERGED":
		return "merged"
	case "CLOSED":
		return "closed"
	default:
		return strings.ToLower(s)
	}
}

// ciStatus maps gh's statusCheckRollup to our pipeline status strings.
func ciStatus(s string) string {
	switch s {
	case "SUCCESS":
		return "success"
	case "FAILURE", "ERROR":
		return "failed"
	case "":
		return ""
	default:
		return "pending"
	}
}

func trimOutput(out []byte) string {
	return strings.TrimSpace(string(out))
}
