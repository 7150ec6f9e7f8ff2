package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muhijericho/capstone-topstyle-sub000/services"
)

// topstyle sync-rentals
var syncRentalsCmd = &cobra.Command{
	Use:   "sync-rentals",
	Short: "Reconcile rental product occupancy against active orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		corrected, err := services.SyncAllRentals()
		if err != nil {
			return err
		}
		fmt.Printf("Rental sync complete: %d product(s) corrected\n", corrected)
		return nil
	},
}

// topstyle check-overdue
var checkOverdueCmd = &cobra.Command{
	Use:   "check-overdue",
	Short: "Persist time-derived order statuses (due, almost_due, overdue)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		updated, err := services.CheckOverdueOrders()
		if err != nil {
			return err
		}
		fmt.Printf("Overdue check complete: %d order(s) updated\n", updated)
		return nil
	},
}
