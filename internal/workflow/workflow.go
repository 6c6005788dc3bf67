// Package workflow runs the external commands behind dashboard actions:
// git mutations, gh mutations, and hand-offs to the AI assistant.
package workflow

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"forgeflow/internal/branch"
	"forgeflow/internal/config"
	"forgeflow/internal/model"
)

// ProviderAvailable reports whether the configured AI assistant binary is on
// PATH. Probed once per session via the environment cache.
func ProviderAvailable(provider string) bool {
	if provider == "" {
		return false
	}
	_, err := exec.LookPath(provider)
	return err == nil
}

// ProgressExists reports whether the assistant progress log exists for this
// repository.
func ProgressExists(root string, cfg *config.Config) bool {
	if cfg == nil || cfg.ProgressFile == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(root, cfg.ProgressFile))
	return err == nil
}

func run(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Commit stages everything and commits with the given message.
func Commit(dir, message string) error {
	if err := run(dir, "git", "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return run(dir, "git", "commit", "-m", message)
}

// Push pushes the current branch, setting the upstream on first push.
func Push(dir, branchName string) error {
	return run(dir, "git", "push", "-u", "origin", branchName)
}

// CheckoutMain switches to the base branch and pulls it. Used once a PR is
// merged.
func CheckoutMain(dir, base string) error {
	if err := run(dir, "git", "checkout", base); err != nil {
		return err
	}
	return run(dir, "git", "pull", "--ff-only")
}

// StartIssue creates and checks out the work branch for an issue, deriving
// the name from the configured author prefix and the issue title.
func StartIssue(dir, author string, issue model.Issue) (string, error) {
	name := fmt.Sprintf("%s/feature-%d-%s", author, issue.Number, branch.Slug(issue.Title))
	if err := run(dir, "git", "checkout", "-b", name); err != nil {
		return "", err
	}
	return name, nil
}

// BranchAuthor derives the author segment for new branch names from the git
// user name. Falls back to "dev".
func BranchAuthor(dir string) string {
	cmd := exec.Command("git", "config", "user.name")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "dev"
	}
	slug := branch.Slug(string(out))
	if slug == "" {
		return "dev"
	}
	// keep it short: first segment of the slugged name
	if first, _, ok := strings.Cut(slug, "-"); ok {
		return first
	}
	return slug
}

// AssistantCmd builds the command that hands the terminal to the AI
// assistant. The caller resumes the dashboard when it exits.
func AssistantCmd(dir string, cfg *config.Config, prompt string) *exec.Cmd {
	args := []string{}
	if prompt != "" {
		args = append(args, prompt)
	}
	cmd := exec.Command(cfg.Provider, args...)
	cmd.Dir = dir
	return cmd
}

// ImplementPrompt is the assistant prompt for working on the linked issue.
// When a progress log exists the assistant resumes from it instead of
// starting over.
func ImplementPrompt(cfg *config.Config, issue *model.Issue, hasProgress bool) string {
	var b strings.Builder
	if issue != nil {
		fmt.Fprintf(&b, "Implement issue #%d: %s.\n", issue.Number, issue.Title)
	} else {
		b.WriteString("Continue work on the current branch.\n")
	}
	if hasProgress {
		fmt.Fprintf(&b, "Resume from the progress log at %s and update it as you go.\n", cfg.ProgressFile)
	} else {
		fmt.Fprintf(&b, "Keep a progress log at %s.\n", cfg.ProgressFile)
	}
	return b.String()
}

// FixPrompt is the assistant prompt for addressing review feedback.
func FixPrompt(feedback model.Feedback) string {
	var b strings.Builder
	b.WriteString("Address the following PR review feedback:\n")
	for _, item := range feedback.Items {
		loc := item.Path
		if loc == "" {
			loc = "general"
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", loc, item.Author, item.Body)
	}
	return b.String()
}

// VideoCmd builds the Playwright invocation that records a demo video into
// the configured output directory.
func VideoCmd(dir string, cfg *config.Config) *exec.Cmd {
	out := filepath.Join(dir, cfg.VideoDir)
	_ = os.MkdirAll(out, 0755)
	cmd := exec.Command("npx", "playwright", "test", "--project=demo",
		"--output", out)
	cmd.Dir = dir
	return cmd
}
