package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/strpbridge/pkg/client"
	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running bridge the way the companion process does",
}

var clientConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Queue a connect to a game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		ip, _ := cmd.Flags().GetString("ip")

		var token *string
		if cmd.Flags().Changed("token") {
			t, _ := cmd.Flags().GetString("token")
			token = &t
		}
		if err := c.Connect(cmd.Context(), ip, token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), ">>> Connect to %s queued.\n", ip)
		return nil
	},
}

var clientIdsMapCmd = &cobra.Command{
	Use:   "idsmap",
	Short: "Print the local-to-remote entity id map",
	Long: `Requests the id map. The bridge answers with the last snapshot and rebuilds
it on the next tick, so --polls > 1 retries until a non-empty map arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		polls, _ := cmd.Flags().GetInt("polls")
		interval, _ := cmd.Flags().GetDuration("interval")

		ids, err := c.WaitIdsMap(cmd.Context(), polls, interval)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ids)
	},
}

var clientLogCmd = &cobra.Command{
	Use:   "log [message]",
	Short: "Forward a message to the bridge log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		return c.Log(cmd.Context(), args[0])
	},
}

var clientHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the bridge is listening",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := c.Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

// newClient targets --url, or the port this host's allocator yields.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	url, _ := cmd.Flags().GetString("url")
	if url != "" {
		return client.New(url), nil
	}
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	alloc := newAllocator(cfg.BasePort, cfg.ProcessNames)
	alloc.Logger = logger
	return client.New(client.Discover(cmd.Context(), alloc)), nil
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.PersistentFlags().String("url", "", "Bridge base URL (default: discovered from running processes)")

	clientConnectCmd.Flags().String("ip", "", "Game server address")
	clientConnectCmd.Flags().String("token", "", "Session token (omitted unless set)")
	_ = clientConnectCmd.MarkFlagRequired("ip")

	clientIdsMapCmd.Flags().Int("polls", 1, "Number of requests before giving up on an empty map")
	clientIdsMapCmd.Flags().Duration("interval", 200*time.Millisecond, "Delay between polls")

	clientCmd.AddCommand(clientConnectCmd, clientIdsMapCmd, clientLogCmd, clientHealthCmd)
}
