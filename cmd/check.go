package cmd

import (
	"fmt"

	"github.com/dvnet/dvnet/state"
	"github.com/spf13/cobra"
)

var checkPath string

// checkCmd validates a topology file without running anything.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a topology config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		topo, err := state.LoadTopology(checkPath)
		if err != nil {
			return err
		}
		nodes := topo.Nodes()
		edges := 0
		for _, n := range nodes {
			edges += len(topo[n])
		}
		fmt.Printf("ok: %d routers, %d links\n", len(nodes), edges/2)
		for _, n := range nodes {
			row, _ := topo.Row(n)
			fmt.Printf("  %s:", n)
			for _, m := range nodes {
				if c, ok := row[m]; ok {
					fmt.Printf(" <%s, %d>", m, c)
				}
			}
			fmt.Println()
		}
		return nil
	},
	GroupID: "tools",
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkPath, "config", "c", "topology.conf", "Topology config file")
}
