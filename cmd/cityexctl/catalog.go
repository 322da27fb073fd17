package main

import (
	"fmt"
	"strconv"

	"cityexchange-go/internal/common"
	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load templates, rates and destinations from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			seed, err := common.LoadSeedConfig(file)
			if err != nil {
				return err
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := common.ApplySeed(cmd.Context(), db, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d templates, %d rates, %d destinations\n",
				result.Templates, result.Rates, result.Destinations)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "seed.yaml", "Seed file path")
	return cmd
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage exchange rates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show active exchange rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			rates, err := db.ListActiveExchangeRates(cmd.Context())
			if err != nil {
				return err
			}
			common.PrintRates(cmd.OutOrStdout(), rates)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set FROM TO RATE",
		Short: "Create or update a rate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inactive, _ := cmd.Flags().GetBool("inactive")

			rate, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[2], err)
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			err = db.UpsertExchangeRate(cmd.Context(), store.UpsertRateParams{
				CurrencyFrom: args[0],
				CurrencyTo:   args[1],
				Rate:         rate,
				IsActive:     !inactive,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → %s = %s\n", args[0], args[1], rate.StringFixed(models.RatePlaces))
			return nil
		},
	}
	set.Flags().Bool("inactive", false, "Store the rate without publishing it")

	cmd.AddCommand(list, set)
	return cmd
}

func templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage bot message templates",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every template and whether it is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			templates, err := db.ListMessageTemplates(cmd.Context())
			if err != nil {
				return err
			}
			common.PrintTemplates(cmd.OutOrStdout(), templates)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set TYPE TEXT",
		Short: "Replace the text of one template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			messageType := models.MessageType(args[0])
			if !messageType.Valid() {
				return fmt.Errorf("unknown message type %q", args[0])
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SetMessageTemplate(cmd.Context(), messageType, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s): %s\n", messageType, messageType.Label(), common.Preview(args[1]))
			return nil
		},
	}

	cmd.AddCommand(list, set)
	return cmd
}

func destinationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "Manage administrator notification chats",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show all destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			destinations, err := db.ListAdminDestinations(cmd.Context())
			if err != nil {
				return err
			}
			common.PrintDestinations(cmd.OutOrStdout(), destinations)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add CHAT_ID",
		Short: "Add or update a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			inactive, _ := cmd.Flags().GetBool("inactive")

			chatId, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q", args[0])
			}

			_, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			err = db.UpsertAdminDestination(cmd.Context(), store.UpsertDestinationParams{
				ChatId:   chatId,
				Name:     name,
				IsActive: !inactive,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ destination %d saved (active=%t)\n", chatId, !inactive)
			return nil
		},
	}
	add.Flags().String("name", "", "Label shown in listings")
	add.Flags().Bool("inactive", false, "Keep the destination but stop sending to it")

	cmd.AddCommand(list, add)
	return cmd
}
