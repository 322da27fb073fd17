package common

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"cityexchange-go/internal/database"
	"cityexchange-go/internal/models"
	"cityexchange-go/internal/notify"
	"cityexchange-go/internal/session"
	"cityexchange-go/internal/store"
	"cityexchange-go/internal/telegram"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService       *database.Service
	Sessions        store.SessionStore
	NotificationBot *telegram.Service
	Notifier        *notify.Notifier
	Location        *time.Location

	closeSessions func()
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the store, applies the optional seed file, picks
// the session backend and builds the administrator notifier. A missing
// notification token disables delivery but does not fail startup.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services := &Services{DbService: dbService, Sessions: dbService}

	if cfg.Database.SeedFile != "" {
		seed, err := LoadSeedConfig(cfg.Database.SeedFile)
		if err != nil {
			services.Close()
			return nil, err
		}
		if _, err := ApplySeed(ctx, dbService, seed); err != nil {
			services.Close()
			return nil, err
		}
	}

	if cfg.Session.Backend == "redis" {
		redisStore, err := session.NewRedisStore(ctx, cfg.Session)
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Sessions = redisStore
		services.closeSessions = func() {
			if err := redisStore.Close(); err != nil {
				zap.L().Warn("Failed to close redis session store", zap.Error(err))
			}
		}
	}
	zap.L().Info("Session backend selected", zap.String("backend", cfg.Session.Backend))

	loc, err := LoadDisplayLocation(cfg.Display)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Location = loc

	var sender notify.Sender
	if cfg.Telegram.NotificationBotToken == "" {
		zap.L().Warn("TELEGRAM_NOTIFICATION_BOT_TOKEN not set, administrator notifications are disabled")
	} else {
		bot, err := telegram.NewService(cfg.Telegram.NotificationBotToken, cfg.Telegram.Debug)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("unable to start notification bot: %w", err)
		}
		services.NotificationBot = bot
		sender = bot
	}
	services.Notifier = notify.NewNotifier(dbService, sender, loc)

	return services, nil
}

// InitializeDatabaseOnly opens just the store, for operator commands that
// never talk to Telegram
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

// LoadDisplayLocation resolves the timezone used in administrator messages
func LoadDisplayLocation(cfg models.DisplayConfig) (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

func (cs *Services) Close() {
	if cs.closeSessions != nil {
		cs.closeSessions()
	}
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
