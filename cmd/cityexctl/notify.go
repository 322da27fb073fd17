package main

import (
	"errors"
	"fmt"

	"cityexchange-go/internal/common"
	"cityexchange-go/internal/notify"
	"cityexchange-go/internal/store"
	"cityexchange-go/internal/telegram"

	"github.com/spf13/cobra"
)

func broadcastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast MESSAGE",
		Short: "Send a message to every known bot user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.Telegram.BotToken == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is required for broadcasts")
			}
			customerBot, err := telegram.NewService(cfg.Telegram.BotToken, cfg.Telegram.Debug)
			if err != nil {
				return err
			}

			result := notify.NewBroadcaster(db, customerBot).Broadcast(cmd.Context(), args[0])
			common.PrintDispatchResult(cmd.OutOrStdout(), "BROADCAST", result)
			return nil
		},
	}
}

func testNotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-notification",
		Short: "Resend the latest transfer request to administrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chatId, _ := cmd.Flags().GetInt64("chat-id")

			cfg, db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			transfer, err := db.GetLatestTransferRequest(cmd.Context())
			if errors.Is(err, store.ErrNotFound) {
				return errors.New("no transfer requests yet, create one through the bot first")
			}
			if err != nil {
				return err
			}

			if cfg.Telegram.NotificationBotToken == "" {
				return errors.New("TELEGRAM_NOTIFICATION_BOT_TOKEN is required")
			}
			notificationBot, err := telegram.NewService(cfg.Telegram.NotificationBotToken, cfg.Telegram.Debug)
			if err != nil {
				return err
			}
			loc, err := common.LoadDisplayLocation(cfg.Display)
			if err != nil {
				return err
			}

			if chatId == 0 {
				destinations, err := db.ListActiveAdminDestinations(cmd.Context())
				if err != nil {
					return err
				}
				if len(destinations) == 0 {
					return errors.New("no active destinations, add one with: cityexctl destinations add CHAT_ID")
				}
				for _, d := range destinations {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %d (%s)\n", d.ChatId, d.Name)
				}
			}

			notifier := notify.NewNotifier(db, notificationBot, loc)
			result := notifier.SendTest(cmd.Context(), chatId, notify.FormatTransfer(transfer, loc))
			common.PrintDispatchResult(cmd.OutOrStdout(), fmt.Sprintf("TEST NOTIFICATION (transfer #%d)", transfer.Id), result)
			return nil
		},
	}

	cmd.Flags().Int64("chat-id", 0, "Send only to this chat instead of the active destinations")
	return cmd
}
