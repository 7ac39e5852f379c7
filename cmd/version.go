package cmd

import (
	"fmt"
	"runtime"

	"github.com/ethpandaops/web3-connect/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of web3-connect.",
	Long:  `Prints the version of web3-connect.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "web3-connect %s (%s/%s)\n", version.Full(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
