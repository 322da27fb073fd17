package main

import (
	"fmt"
	"strconv"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/sweeper"

	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage exchange orders",
	}

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set an order status (pending, processed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			orderStatus := models.OrderStatus(args[1])
			if err := db.UpdateOrderStatus(cmd.Context(), id, orderStatus); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ order #%d → %s\n", id, orderStatus.Label())
			return nil
		},
	}

	cmd.AddCommand(status)
	return cmd
}

func transfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Manage transfer requests",
	}

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set a transfer status (new, in_progress, completed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transfer id %q", args[0])
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			transferStatus := models.TransferStatus(args[1])
			if err := db.UpdateTransferStatus(cmd.Context(), id, transferStatus); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ transfer #%d → %s\n", id, transferStatus.Label())
			return nil
		},
	}

	cmd.AddCommand(status)
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Cancel pending orders older than ORDER_MAX_AGE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			s, err := sweeper.NewSweeper(db, cfg.Sweeper)
			if err != nil {
				return err
			}
			count, err := s.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled %d expired orders\n", count)
			return nil
		},
	}
}
