package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/nftmarket/internal/adapters/progress"
	"github.com/trebuchet-org/nftmarket/internal/app"
	"github.com/trebuchet-org/nftmarket/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// sessionKey is the context key for the initialized session
	sessionKey contextKey = "session"

	// networkAnnotation marks commands that cannot run without a network
	networkAnnotation = "network"
	networkRequired   = "required"
)

// session holds everything a command acquires during initialization
type session struct {
	app     *app.App
	sink    *progress.ConsoleSink
	cleanup func()
	cancel  context.CancelFunc
}

func (s *session) close() {
	if s.sink != nil {
		s.sink.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.cleanup != nil {
		s.cleanup()
	}
}

// Execute runs the root command and releases whatever it acquired
func Execute() error {
	s := &session{}
	defer s.close()
	return newRootCmd(s).Execute()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&session{})
}

func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nftmarket",
		Short: "Deploy an NFT marketplace and list tokens on it",
		Long: `nftmarket deploys the NFTMarketplace contract, verifies it on public networks
and runs the mint, approve and list flow against a deployed BasicNFT.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)
			return s.setup(cmd, v)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., localhost, sepolia)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable prompts, spinners and colors")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default 5m)")
	rootCmd.PersistentFlags().Duration("confirmation-timeout", 0, "Maximum wait for a transaction's confirmations (default 3m)")
	rootCmd.PersistentFlags().Duration("poll-interval", 0, "Receipt polling interval (default 2s)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "marketplace",
		Title: "Marketplace Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	mintAndListCmd := NewMintAndListCmd()
	mintAndListCmd.GroupID = "main"
	rootCmd.AddCommand(mintAndListCmd)

	listingCmd := NewListingCmd()
	listingCmd.GroupID = "marketplace"
	rootCmd.AddCommand(listingCmd)

	buyCmd := NewBuyCmd()
	buyCmd.GroupID = "marketplace"
	rootCmd.AddCommand(buyCmd)

	deploymentsCmd := NewDeploymentsCmd()
	deploymentsCmd.GroupID = "management"
	rootCmd.AddCommand(deploymentsCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// setup wires the app for cmd and stores the session in the command context. Without a
// terminal on stderr nothing can be prompted, so the run is treated as non-interactive.
func (s *session) setup(cmd *cobra.Command, v *viper.Viper) error {
	if v.GetBool("non_interactive") {
		color.NoColor = true
	}

	out := cmd.ErrOrStderr()
	if !isTerminal(out) {
		v.Set("non_interactive", true)
	}
	s.sink = progress.NewConsoleSink(out, !v.GetBool("non_interactive"))

	appInstance, cleanup, err := app.InitApp(v, s.sink)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	if cmd.Annotations[networkAnnotation] == networkRequired && appInstance.Config.Network == nil {
		network, err := appInstance.SelectNetwork.Run(cmd.Context())
		cleanup()
		if err != nil {
			return err
		}

		v.Set("network", network)
		appInstance, cleanup, err = app.InitApp(v, s.sink)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
	}

	s.app = appInstance
	s.cleanup = cleanup

	ctx := context.WithValue(cmd.Context(), sessionKey, s)
	if appInstance.Config.Timeout > 0 {
		ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
	}
	cmd.SetContext(ctx)

	return nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	s, ok := cmd.Context().Value(sessionKey).(*session)
	if !ok || s.app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return s.app, nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
