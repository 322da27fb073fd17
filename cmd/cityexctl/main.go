package main

import (
	"context"
	"fmt"
	"os"

	"cityexchange-go/internal/common"
	"cityexchange-go/internal/config"
	"cityexchange-go/internal/database"
	"cityexchange-go/internal/models"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	rootCmd := &cobra.Command{
		Use:           "cityexctl",
		Short:         "Operator tool for the City Exchange backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(ratesCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(destinationsCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(transfersCmd())
	rootCmd.AddCommand(broadcastCmd())
	rootCmd.AddCommand(testNotificationCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		loggerCleanup()
		os.Exit(1)
	}
}

// openStore loads configuration and opens the database for one command
func openStore(ctx context.Context) (*models.Config, *database.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
