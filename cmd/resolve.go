package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var resolveTimeout time.Duration

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolves a web3 provider once and prints the result.",
	Long:  `Resolves a web3 provider once, waits for the account list and prints the resolved handle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		defer srv.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), resolveTimeout)
		defer cancel()

		handle := srv.Resolve(ctx, resolveOptions(cmd)...)
		if handle == nil {
			return fmt.Errorf("no web3 provider resolved: %w", srv.State().Err())
		}

		snap := srv.State().Snapshot()

		fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\nTarget: %s\nFallback: %t\nActive address: %s\nAccounts: %d\n",
			snap.Source, snap.Target, snap.IsFallback, snap.ActiveAddress, len(snap.Accounts))

		for _, account := range snap.Accounts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", account)
		}

		return nil
	},
}

func init() {
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 30*time.Second, "how long to wait for authorization and accounts")
	rootCmd.AddCommand(resolveCmd)
}
