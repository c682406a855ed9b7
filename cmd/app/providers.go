package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/domain/share"
	"github.com/nurturemyplants/plantcare/internal/infra/config"
	"github.com/nurturemyplants/plantcare/internal/infra/imaging"
	"github.com/nurturemyplants/plantcare/internal/infra/llm/vision"
	"github.com/nurturemyplants/plantcare/internal/infra/sharestore"
	httpiface "github.com/nurturemyplants/plantcare/internal/interface/http"
)

func provideModelClient(cfg *config.Config) *vision.Client {
	return vision.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideIdentifyConfig(cfg *config.Config) identify.Config {
	return identify.Config{
		Model:         cfg.LLM.VisionModel,
		MaxTokens:     cfg.LLM.IdentifyMaxTokens,
		Temperature:   cfg.LLM.Temperature,
		CredentialsOK: cfg.LLM.CredentialsConfigured(),
	}
}

func provideCarePlanConfig(cfg *config.Config) careplan.Config {
	return careplan.Config{
		Model:       cfg.LLM.TextModel,
		MaxTokens:   cfg.LLM.CarePlanMaxTokens,
		Temperature: cfg.LLM.Temperature,
	}
}

func providePreprocessor(cfg *config.Config, logger *slog.Logger) *imaging.Preprocessor {
	return imaging.NewPreprocessor(imaging.Config{
		MaxSizeBytes: cfg.Image.MaxSizeBytes,
		MaxEdge:      cfg.Image.MaxEdge,
		JPEGQuality:  cfg.Image.JPEGQuality,
	}, logger)
}

func provideShareConfig(cfg *config.Config) share.Config {
	return share.Config{TTL: cfg.Share.TTL}
}

func provideShareStore(cfg *config.Config, logger *slog.Logger) share.Store {
	if cfg.Share.Valkey.Enabled {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{cfg.Share.Valkey.Addr},
		})
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return sharestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("share valkey store enabled", "addr", cfg.Share.Valkey.Addr)
			return sharestore.NewValkeyStore(client, "plantshare")
		}
	}
	return sharestore.NewMemoryStore()
}

func provideRateLimiters(cfg *config.Config, logger *slog.Logger) *httpiface.Limiters {
	return httpiface.NewLimiters(cfg.RateLimit, logger)
}
