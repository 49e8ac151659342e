package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of faustbox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "faustbox version %s\n", strings.TrimSpace(faustbox.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
