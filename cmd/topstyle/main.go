package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "topstyle",
	Short: "TopStyle business maintenance CLI",
	Long:  "Maintenance commands for the TopStyle tailoring shop backend: schema migration, rental reconciliation and overdue sweeps.",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncRentalsCmd)
	rootCmd.AddCommand(checkOverdueCmd)
	rootCmd.AddCommand(seedCmd)
}
