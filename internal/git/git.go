// Package git queries the local repository by shelling out to the git CLI.
package git

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"forgeflow/internal/model"
)

// Service runs git commands in a fixed working directory.
type Service struct {
	Dir string // empty means the process working directory
}

func (s Service) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether the working directory is inside a git work tree.
func (s Service) IsRepo() bool {
	out, err := s.git("rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Root returns the absolute path of the repository root.
func (s Service) Root() (string, error) {
	return s.git("rev-parse", "--show-toplevel")
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (s Service) CurrentBranch() (string, error) {
	return s.git("rev-parse", "--abbrev-ref", "HEAD")
}

// DefaultBranch returns the remote default branch (e.g. "main", "master").
// Falls back to "main" if it cannot be determined.
func (s Service) DefaultBranch() string {
	out, err := s.git("symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		// output is "origin/main" — strip the remote prefix
		if _, after, ok := strings.Cut(out, "/"); ok {
			return after
		}
	}
	return "main"
}

// HasUncommittedChanges reports whether the work tree or index is dirty.
func (s Service) HasUncommittedChanges() (bool, error) {
	out, err := s.git("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// HasUnpushedCommits reports whether the current branch is ahead of its
// upstream. A branch with no upstream counts as unpushed when it has any
// commits of its own.
func (s Service) HasUnpushedCommits() (bool, error) {
	out, err := s.git("rev-list", "--count", "@{upstream}..HEAD")
	if err != nil {
		// No upstream configured: unpushed iff the branch has commits of
		// its own.
		commits, cerr := s.CommitsSince(s.DefaultBranch())
		if cerr != nil {
			return false, cerr
		}
		return len(commits) > 0, nil
	}
	n, _ := strconv.Atoi(out)
	return n > 0, nil
}

// CommitsSince returns the commits on HEAD that are not on base,
// newest first.
func (s Service) CommitsSince(base string) ([]model.Commit, error) {
	out, err := s.git("log", "--format=%H%x00%s%x00%ct", base+"..HEAD")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var commits []model.Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\x00", 3)
		if len(parts) != 3 {
			continue
		}
		sec, _ := strconv.ParseInt(parts[2], 10, 64)
		commits = append(commits, model.Commit{
			Hash:    parts[0],
			Subject: parts[1],
			When:    time.Unix(sec, 0),
		})
	}
	return commits, nil
}

// LastCommitTime returns the author time of HEAD.
func (s Service) LastCommitTime() (time.Time, error) {
	out, err := s.git("log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse commit time: %w", err)
	}
	return time.Unix(sec, 0), nil
}

// RemoteRepo returns the owner/name of the origin GitHub remote, or nil when
// no remote exists or the remote is not a GitHub one.
func (s Service) RemoteRepo() (*model.Repo, error) {
	out, err := s.git("remote", "get-url", "origin")
	if err != nil {
		return nil, nil
	}
	return parseRemote(out), nil
}

// parseRemote extracts owner/name from https and ssh GitHub remote URLs.
func parseRemote(url string) *model.Repo {
	url = strings.TrimSpace(url)
	url = strings.TrimSuffix(url, ".git")

	var path string
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.Contains(url, "github.com/"):
		_, path, _ = strings.Cut(url, "github.com/")
	default:
		return nil
	}

	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" {
		return nil
	}
	// drop anything after the repo segment
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	return &model.Repo{Owner: owner, Name: name}
}
