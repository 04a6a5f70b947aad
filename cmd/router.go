package cmd

import (
	"github.com/dvnet/dvnet/core"
	"github.com/dvnet/dvnet/state"
	"github.com/spf13/cobra"
)

var (
	routerId  string
	routerCfg state.RouterCfg
)

// routerCmd runs a single router agent.
var routerCmd = &cobra.Command{
	Use:   "router",
	Short: "Run one router agent",
	Long: `A router agent registers with the relay under its id, learns its direct
neighbour costs, and runs the distance-vector cycle until it converges. It
keeps running afterwards to serve late joiners.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if err := applySettings(); err != nil {
			return err
		}
		routerCfg.Id = state.Node(routerId)
		routerCfg.LogPath = logPath
		if err := state.RouterConfigValidator(&routerCfg); err != nil {
			return err
		}
		return core.StartRouter(routerCfg, logLevel())
	},
	GroupID: "run",
}

func init() {
	rootCmd.AddCommand(routerCmd)

	routerCmd.Flags().StringVarP(&routerId, "id", "i", "", "Router id (required)")
	routerCmd.Flags().StringVar(&routerCfg.RelayHost, "relay-host", "127.0.0.1", "Relay host")
	routerCmd.Flags().Uint16Var(&routerCfg.RelayPort, "relay-port", state.DefaultRelayPort, "Relay UDP port")
	_ = routerCmd.MarkFlagRequired("id")
}
