package main

import (
	"os"

	"github.com/spf13/cobra"

	"tienda/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tienda",
		Short: "Tienda session service",
		Long:  `Tienda session lifecycle service: session storage, validation, provider sync and cleanup.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
