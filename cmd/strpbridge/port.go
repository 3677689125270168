package main

import (
	"fmt"

	"github.com/aretw0/strpbridge/internal/portalloc"
	"github.com/aretw0/strpbridge/pkg/client"
	"github.com/spf13/cobra"
)

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Print the port a bridge on this host would bind",
	Long: `Counts running game client processes and prints base_port plus that count,
which is the port a new bridge instance picks when no fixed port is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		alloc := newAllocator(cfg.BasePort, cfg.ProcessNames)
		alloc.Logger = logger

		if asURL, _ := cmd.Flags().GetBool("url"); asURL {
			fmt.Fprintln(cmd.OutOrStdout(), client.Discover(cmd.Context(), alloc))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), alloc.Allocate(cmd.Context()))
		return nil
	},
}

// newLister enumerates host processes for port and client discovery.
var newLister = portalloc.NewProcessLister

func newAllocator(base int, names []string) *portalloc.Allocator {
	alloc := portalloc.New()
	alloc.Lister = newLister()
	if base != 0 {
		alloc.BasePort = base
	}
	if len(names) > 0 {
		alloc.Names = names
	}
	return alloc
}

func init() {
	rootCmd.AddCommand(portCmd)
	portCmd.Flags().Bool("url", false, "Print the base URL instead of the port")
}
