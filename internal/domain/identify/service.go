package identify

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nurturemyplants/plantcare/internal/infra/llm/vision"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
)

const identificationPrompt = `You are a botanical expert. First, determine if this image contains a plant or plant-like organism. If it doesn't contain a plant, respond with "not_a_plant" as the commonName.

If it IS a plant, provide:
1. Plant identification (common name and scientific name)
2. Confidence level (high/medium/low)
3. Key identifying features you observed
4. If uncertain, list top 2-3 possibilities

Return as JSON only, no other text:
{
  "commonName": string,
  "scientificName": string,
  "confidence": "high" | "medium" | "low",
  "identifyingFeatures": string[],
  "alternatives": Array<{commonName: string, scientificName: string}> | null
}`

// Service exposes plant identification against the remote vision model.
type Service interface {
	Identify(ctx context.Context, imageBase64, imageMIME, sessionID string) (Result, error)
}

// ModelClient is the slice of the vision client the service needs.
type ModelClient interface {
	Complete(ctx context.Context, req vision.CompletionRequest) (vision.CompletionResult, error)
}

// Config carries the model parameters for the identification call.
type Config struct {
	Model         string
	MaxTokens     int
	Temperature   float32
	CredentialsOK bool
}

type service struct {
	cfg    Config
	client ModelClient
	logger *slog.Logger
}

// NewService is a wire provider for the identification domain.
func NewService(cfg Config, client ModelClient, logger *slog.Logger) Service {
	return &service{cfg: cfg, client: client, logger: logger.With("component", "identify.service")}
}

var dataURIPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// StripDataURI removes a data-URI scheme prefix from a base64 payload.
func StripDataURI(payload string) string {
	return dataURIPrefix.ReplaceAllString(payload, "")
}

func (s *service) Identify(ctx context.Context, imageBase64, imageMIME, sessionID string) (Result, error) {
	if !s.cfg.CredentialsOK {
		return Result{}, apperrors.Wrap("config_error", "model API key is missing or a placeholder", nil)
	}
	payload := StripDataURI(strings.TrimSpace(imageBase64))
	if payload == "" {
		return Result{}, apperrors.Wrap("invalid_input", "image data is required", nil)
	}

	resp, err := s.client.Complete(ctx, vision.CompletionRequest{
		Model:       s.cfg.Model,
		Prompt:      identificationPrompt,
		ImageBase64: payload,
		ImageMIME:   imageMIME,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Result{}, err
	}

	var ident Identification
	if parseErr := json.Unmarshal([]byte(resp.Text), &ident); parseErr != nil {
		// The model sometimes answers the sentinel case in prose instead of
		// JSON. Best effort: scan the raw text before giving up.
		if containsNotAPlant(resp.Text) {
			s.logger.Info("non-plant image detected from raw model text",
				"session_id", sessionID)
			return notAPlantResult(), nil
		}
		s.logger.Error("identification response is not valid JSON",
			"session_id", sessionID, "error", parseErr)
		return Result{}, apperrors.Wrap("identify_parse", "failed to identify plant", parseErr)
	}

	if ident.CommonName == SentinelNotAPlant {
		s.logger.Info("non-plant image detected", "session_id", sessionID)
		return notAPlantResult(), nil
	}

	logAttrs := []any{"session_id", sessionID,
		"common_name", ident.CommonName, "confidence", ident.Confidence}
	if !resp.Usage.IsZero() {
		logAttrs = append(logAttrs,
			"prompt_tokens", resp.Usage.PromptTokens, "total_tokens", resp.Usage.TotalTokens)
	}
	s.logger.Info("plant identified", logAttrs...)

	return Result{Identification: ident, IsPlant: true}, nil
}

func containsNotAPlant(text string) bool {
	if strings.Contains(text, SentinelNotAPlant) {
		return true
	}
	return strings.Contains(strings.ToLower(text), "not a plant")
}
