package cmd

import (
	"log/slog"
	"os"

	"github.com/dvnet/dvnet/state"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	settingsPath string
	logPath      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvnet",
	Short: "Distance-vector routing simulator",
	Long: `dvnet simulates Bellman-Ford route computation among logical routers that
exchange advertisements through a central relay. Run one relay with the full
topology and one router process per router id; each router converges on the
shortest paths and prints its forwarding table once.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "run",
		Title: "Run Components",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools",
	})
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "Optional YAML file with protocol tunables")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log-path", "l", "", "Also write logs to this file")
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// applySettings loads and applies the tunables file, if one was given.
func applySettings() error {
	if settingsPath == "" {
		return nil
	}
	settings, err := state.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	settings.Apply()
	return nil
}
