// Package uichange detects user-interface changes on a feature branch and
// probes for the Playwright tooling used to record demo videos.
package uichange

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// uiExtensions are file extensions that count as UI surface.
var uiExtensions = map[string]bool{
	".tsx":    true,
	".jsx":    true,
	".vue":    true,
	".svelte": true,
	".css":    true,
	".scss":   true,
	".html":   true,
}

// uiDirs are path segments that mark a file as UI surface regardless of
// extension.
var uiDirs = []string{"components/", "pages/", "views/", "ui/"}

// Service inspects the repository for UI-relevant changes.
type Service struct {
	Dir string
}

// ChangedFiles returns the files changed on HEAD relative to base.
func (s Service) ChangedFiles(base string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", base+"...HEAD")
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// HasUIChanges reports whether any changed file touches the UI surface.
func HasUIChanges(files []string) bool {
	for _, f := range files {
		if uiExtensions[filepath.Ext(f)] {
			return true
		}
		norm := filepath.ToSlash(f)
		for _, dir := range uiDirs {
			if strings.Contains(norm, dir) {
				return true
			}
		}
	}
	return false
}

// PlaywrightAvailable reports whether the Playwright CLI can be invoked.
// The check shells out, so callers cache it for the session.
func (s Service) PlaywrightAvailable() bool {
	if _, err := exec.LookPath("playwright"); err == nil {
		return true
	}
	cmd := exec.Command("npx", "--no-install", "playwright", "--version")
	if s.Dir != "" {
		cmd.Dir = s.Dir
	}
	return cmd.Run() == nil
}
