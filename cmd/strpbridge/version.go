package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/strpbridge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of strpbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "strpbridge version %s\n", strings.TrimSpace(strpbridge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
