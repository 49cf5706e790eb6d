// Package cli defines the wildpay command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the wildpay command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wildpay",
		Short: "settle shared group expenses",
		Long: `wildpay records what group members spend for each other and works out
who owes whom, with as few payments as possible.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCommand())
	cmd.AddCommand(migrateCommand())
	cmd.AddCommand(settleCommand())
	return cmd
}
