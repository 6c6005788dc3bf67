package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the per-repository config file, looked up at the repo root.
const FileName = ".forgeflow.yaml"

// Labels maps workflow stages to the label names used on the tracker.
type Labels struct {
	Ready      string `yaml:"ready"`
	InProgress string `yaml:"in_progress"`
	Completed  string `yaml:"completed"`
	Blocked    string `yaml:"blocked"`
}

// All returns the label names in workflow-priority order.
func (l Labels) All() []string {
	return []string{l.Ready, l.InProgress, l.Completed, l.Blocked}
}

// Config holds the per-repository configuration.
type Config struct {
	Provider     string   `yaml:"provider"`      // AI assistant: "claude", "codex", ...
	Providers    []string `yaml:"providers"`     // providers offered by switch-provider
	Labels       Labels   `yaml:"labels"`
	ProgressFile string   `yaml:"progress_file"` // assistant progress log, repo-relative
	VideoDir     string   `yaml:"video_dir"`     // demo recording output, repo-relative
	BaseBranch   string   `yaml:"base_branch"`   // empty means "ask git"
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider:  "claude",
		Providers: []string{"claude", "codex", "gemini"},
		Labels: Labels{
			Ready:      "ready",
			InProgress: "in-progress",
			Completed:  "completed",
			Blocked:    "blocked",
		},
		ProgressFile: filepath.Join(".forgeflow", "progress.md"),
		VideoDir:     filepath.Join(".forgeflow", "videos"),
	}
}

// Path returns the config file path for the given repo root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Exists reports whether a config file is present at the repo root.
func Exists(repoRoot string) bool {
	_, err := os.Stat(Path(repoRoot))
	return err == nil
}

// Load reads the configuration for the repo root. It never fails: a missing
// or unreadable file yields defaults, and missing fields are backfilled.
func Load(repoRoot string) *Config {
	cfg := Default()

	data, err := os.ReadFile(Path(repoRoot))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default()
	}

	fill(cfg)
	return cfg
}

// Write creates a config file with the default settings. Used by the init
// action; refuses to overwrite an existing file.
func Write(repoRoot string) error {
	path := Path(repoRoot)
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fill(cfg *Config) {
	def := Default()
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = def.Providers
	}
	if cfg.Labels.Ready == "" {
		cfg.Labels.Ready = def.Labels.Ready
	}
	if cfg.Labels.InProgress == "" {
		cfg.Labels.InProgress = def.Labels.InProgress
	}
	if cfg.Labels.Completed == "" {
		cfg.Labels.Completed = def.Labels.Completed
	}
	if cfg.Labels.Blocked == "" {
		cfg.Labels.Blocked = def.Labels.Blocked
	}
	if cfg.ProgressFile == "" {
		cfg.ProgressFile = def.ProgressFile
	}
	if cfg.VideoDir == "" {
		cfg.VideoDir = def.VideoDir
	}
}
