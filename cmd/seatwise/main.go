package main

import (
	"os"

	"github.com/spf13/cobra"

	"seatwise/internal/interfaces/cli/migrate"
	"seatwise/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seatwise",
		Short: "Seatwise - seat entitlement and coverage precedence engine",
		Long:  `Seatwise manages district seat pools, resolves payer precedence between organizational and individual coverage, and reconciles double payment.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
