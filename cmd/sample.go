package cmd

import (
	"fmt"

	"github.com/dvnet/dvnet/state"
	"github.com/spf13/cobra"
)

// sampleCmd prints a ready-to-run six router topology plus the default
// tunables, for getting started quickly.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print a sample topology and the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fmt.Print(state.SixRouterConfig)
		fmt.Println()

		settings := state.DefaultSettings()
		out, err := settings.Marshal()
		if err != nil {
			return err
		}
		fmt.Println("# settings.yaml")
		fmt.Print(string(out))
		return nil
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
