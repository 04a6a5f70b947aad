package cmd

import (
	"fmt"

	"github.com/dvnet/dvnet/core"
	"github.com/dvnet/dvnet/state"
	"github.com/spf13/cobra"
)

var relayCfg state.RelayCfg

// relayCmd runs the rendezvous relay with the full topology.
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the advertisement relay",
	Long: `The relay loads the full topology, accepts registrations from router
agents and forwards their advertisements between declared neighbours. It
never computes routes itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if err := applySettings(); err != nil {
			return err
		}
		relayCfg.LogPath = logPath
		if err := state.RelayConfigValidator(&relayCfg); err != nil {
			return err
		}
		topo, err := state.LoadTopology(relayCfg.TopologyPath)
		if err != nil {
			return err
		}
		return core.StartRelay(relayCfg, topo, logLevel())
	},
	GroupID: "run",
}

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().StringVarP(&relayCfg.Bind, "bind", "b", fmt.Sprintf("0.0.0.0:%d", state.DefaultRelayPort), "UDP address to listen on")
	relayCmd.Flags().StringVarP(&relayCfg.TopologyPath, "config", "c", "topology.conf", "Topology config file")
	relayCmd.Flags().StringVarP(&relayCfg.MetricsBind, "metrics-bind", "m", "", "Serve Prometheus metrics on this address")
}
