package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentcore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agentcore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agentcore version %s\n", strings.TrimSpace(agentcore.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
