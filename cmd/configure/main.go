package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronosync/chronosync/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "chronosync-configure",
		Short: "Configuration tool for the ChronoSync API",
		Long:  "CLI tool for managing runtime configuration stored in the database",
	}

	rootCmd.AddCommand(commands.NewCorsCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewTestCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
