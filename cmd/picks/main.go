package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Global flags
var (
	configFile string
	demoMode   bool
	ownerFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "picks",
	Short: "Browse and curate a showcase of recommended Amazon products",
	Long: `picks shows a profile and its hand-picked Amazon products in the terminal.

Log in to set up your own profile and manage your picks, or pass --owner to
browse someone else's showcase read-only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/picks/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "use an in-memory backend with sample data")
	rootCmd.Flags().StringVar(&ownerFlag, "owner", "", "principal whose showcase to browse")

	rootCmd.AddCommand(showCmd, whoamiCmd, loginCmd, logoutCmd, roleCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil || a == nil {
		return err
	}
	defer a.Close()

	viewed := domain.None[domain.Principal]()
	if ownerFlag != "" {
		viewed = domain.Some(domain.Principal(ownerFlag))
	}

	model := tui.NewModel(a.svc, a.auth, tui.Options{
		Viewed:      viewed,
		Launcher:    a.launcher,
		Restorer:    a.restorer,
		Timeout:     a.cfg.Actor.Timeout,
		GridColumns: a.cfg.UI.GridColumns,
	})

	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI", "owner", ownerFlag, "demo", demoMode)

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
