package main

import (
	"fmt"
	"os"

	"github.com/aretw0/strpbridge"
	"github.com/aretw0/strpbridge/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge next to a headless host",
	Long: `Starts the bridge listener and drives it from an in-memory host ticking
at tick_interval. Connect requests are recorded by the host transport and
the ids map is built from the --entities seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		entities, _ := cmd.Flags().GetString("entities")
		ids, err := cli.ParseIdentities(entities)
		if err != nil {
			return err
		}

		var bridgeOpts []strpbridge.Option
		if cmd.Flags().Changed("port") {
			port, _ := cmd.Flags().GetInt("port")
			bridgeOpts = append(bridgeOpts, strpbridge.WithPort(port))
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		quiet, _ := cmd.Flags().GetBool("quiet")
		err = cli.RunServe(ctx, cli.ServeOptions{
			Config:        cfg,
			Logger:        logger,
			Out:           cmd.OutOrStdout(),
			Quiet:         quiet,
			Entities:      ids,
			BridgeOptions: bridgeOpts,
		})
		if sig := ctx.Signal(); sig != nil && !quiet {
			fmt.Fprintf(os.Stderr, "\nShutdown by signal: %v\n", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Fixed port (0 picks an ephemeral port; unset uses the allocator)")
	serveCmd.Flags().String("entities", "", "Seed entities as local:remote pairs, e.g. 5:100,6:200")
	serveCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner")
}
