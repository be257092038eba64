package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/logger"
	"github.com/brizzai/oauth-relay/internal/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "oauth-relay",
	Short: "Instagram OAuth code exchange relay",
	Long: `oauth-relay serves a login link for the Instagram authorization code flow,
exchanges the returned code for an access token and renders the user's profile.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion(cmd) {
			return
		}
		_ = cmd.Help()
	},
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve the login, code exchange and profile pages (token kept in memory)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd, config.TokenStorageMemory)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Serve the profile page using ACCESS_TOKEN from configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd, config.TokenStorageStatic)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets masked",
	RunE:  printConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if showVersion(cmd) {
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	configCmd.Flags().String("token-storage", string(config.TokenStorageMemory), "Token storage to resolve the config for (memory|static-config)")

	rootCmd.AddCommand(relayCmd, profileCmd, configCmd)
}

// showVersion prints the version when --version is set and reports whether it did
func showVersion(cmd *cobra.Command) bool {
	versionFlag, _ := cmd.Flags().GetBool("version")
	if !versionFlag {
		return false
	}
	pterm.Info.WithWriter(cmd.OutOrStdout()).Println(config.GetVersionInfo())
	return true
}

// serve runs the relay until SIGINT or SIGTERM
func serve(cmd *cobra.Command, storage config.TokenStorage) error {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	cfg, err := config.Load(cmd.Flags(), storage)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	app := fx.New(server.Options(cfg))
	if err := app.Err(); err != nil {
		return fmt.Errorf("error building application: %w", err)
	}
	app.Run()
	// stdout cannot be synced on some platforms, nothing to report then
	_ = logger.Sync()
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	storage, _ := cmd.Flags().GetString("token-storage")
	cfg, err := config.Load(cmd.Flags(), config.TokenStorage(storage))
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	pterm.Println(string(out))
	return nil
}
