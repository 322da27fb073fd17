package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cityexchange-go/internal/models"
	"cityexchange-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// SeedConfig is the operator seed file: message templates, exchange rates
// and notification destinations.
type SeedConfig struct {
	Templates    map[string]string `yaml:"templates"`
	Rates        []SeedRate        `yaml:"rates"`
	Destinations []SeedDestination `yaml:"destinations"`
}

type SeedRate struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Rate   string `yaml:"rate"`
	Active *bool  `yaml:"active"`
}

type SeedDestination struct {
	ChatId int64  `yaml:"chat_id"`
	Name   string `yaml:"name"`
	Active *bool  `yaml:"active"`
}

type SeedResult struct {
	Templates    int
	Rates        int
	Destinations int
}

// SeedStore is the subset of the request store the seed writes to
type SeedStore interface {
	SetMessageTemplate(ctx context.Context, messageType models.MessageType, text string) error
	UpsertExchangeRate(ctx context.Context, params store.UpsertRateParams) error
	UpsertAdminDestination(ctx context.Context, params store.UpsertDestinationParams) error
}

func LoadSeedConfig(seedFile string) (*SeedConfig, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", seedFile, err)
	}
	return &config, nil
}

func (c *SeedConfig) validate() error {
	for key := range c.Templates {
		if !models.MessageType(key).Valid() {
			return fmt.Errorf("unknown message type %q", key)
		}
	}
	for i, r := range c.Rates {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("rate at index %d missing currency", i)
		}
		if _, err := decimal.NewFromString(r.Rate); err != nil {
			return fmt.Errorf("rate at index %d has invalid value %q", i, r.Rate)
		}
	}
	for i, d := range c.Destinations {
		if d.ChatId == 0 {
			return fmt.Errorf("destination at index %d missing chat_id", i)
		}
	}
	return nil
}

// ApplySeed upserts everything in the seed. Running it twice is harmless.
func ApplySeed(ctx context.Context, s SeedStore, seed *SeedConfig) (SeedResult, error) {
	var result SeedResult

	for _, messageType := range models.MessageTypes {
		text, ok := seed.Templates[string(messageType)]
		if !ok {
			continue
		}
		if err := s.SetMessageTemplate(ctx, messageType, text); err != nil {
			return result, fmt.Errorf("unable to seed template %s: %w", messageType, err)
		}
		result.Templates++
	}

	for _, r := range seed.Rates {
		err := s.UpsertExchangeRate(ctx, store.UpsertRateParams{
			CurrencyFrom: r.From,
			CurrencyTo:   r.To,
			Rate:         decimal.RequireFromString(r.Rate),
			IsActive:     isActive(r.Active),
		})
		if err != nil {
			return result, fmt.Errorf("unable to seed rate %s → %s: %w", r.From, r.To, err)
		}
		result.Rates++
	}

	for _, d := range seed.Destinations {
		err := s.UpsertAdminDestination(ctx, store.UpsertDestinationParams{
			ChatId:   d.ChatId,
			Name:     d.Name,
			IsActive: isActive(d.Active),
		})
		if err != nil {
			return result, fmt.Errorf("unable to seed destination %d: %w", d.ChatId, err)
		}
		result.Destinations++
	}

	zap.L().Info("Seed applied",
		zap.Int("templates", result.Templates),
		zap.Int("rates", result.Rates),
		zap.Int("destinations", result.Destinations))
	return result, nil
}

// isActive defaults omitted flags to true
func isActive(flag *bool) bool {
	return flag == nil || *flag
}
