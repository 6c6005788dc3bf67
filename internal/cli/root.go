// Package cli is the command-line surface wrapping the dashboard.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"forgeflow/internal/git"
	"forgeflow/internal/state"
	"forgeflow/internal/tui"
	"forgeflow/internal/watch"
)

// Version is stamped by the release build.
var Version = "dev"

// RootOptions holds the global flags.
type RootOptions struct {
	NoWatch  bool
	Provider string
}

// NewRootCommand creates the forgeflow root command. With no subcommand it
// opens the interactive dashboard.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "forgeflow",
		Short:         "Issue-to-PR workflow dashboard",
		Long:          "forgeflow drives a GitHub issue/PR workflow from an interactive terminal dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.NoWatch, "no-watch", false, "disable auto-refresh on repository changes")
	cmd.PersistentFlags().StringVar(&opts.Provider, "provider", "", "override the configured AI assistant")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the forgeflow version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "forgeflow", Version)
		},
	}
}

func runDashboard(opts *RootOptions) error {
	agg := state.New("", state.NewEnvCache())
	if opts.Provider != "" {
		agg.SetProvider(opts.Provider)
	}

	var changes <-chan struct{}
	if !opts.NoWatch {
		if root, err := (git.Service{}).Root(); err == nil {
			if w, err := watch.New(root); err == nil {
				defer w.Close()
				changes = w.Events()
			}
		}
	}

	p := tea.NewProgram(tui.New(agg, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
