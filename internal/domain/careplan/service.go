package careplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/nurturemyplants/plantcare/internal/infra/llm/vision"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
)

const carePlanPromptTemplate = `Generate a comprehensive care plan for %s (%s). Include:

1. Watering: frequency, amount, seasonal variations
2. Light: ideal conditions, tolerance range
3. Temperature & Humidity: optimal ranges
4. Soil: type, pH, drainage needs
5. Fertilizing: schedule, type
6. Common Problems: pests, diseases, solutions
7. Pruning & Maintenance: when and how
8. Special Care Tips: propagation, repotting

Format as JSON only, no other text. Use clear, actionable advice for beginners:
{
  "plantName": %q,
  "watering": {
    "frequency": string,
    "amount": string,
    "seasonalNotes": string
  },
  "light": {
    "ideal": string,
    "tolerates": string
  },
  "temperature": {
    "optimal": string,
    "minimum": string
  },
  "humidity": string,
  "soil": {
    "type": string,
    "pH": string,
    "drainage": string
  },
  "fertilizing": {
    "schedule": string,
    "type": string
  },
  "commonProblems": [
    {
      "issue": string,
      "solution": string
    }
  ],
  "maintenance": {
    "pruning": string,
    "repotting": string
  },
  "tips": [string]
}`

// Service generates care plans for an identified plant.
type Service interface {
	Generate(ctx context.Context, commonName, scientificName string) (Plan, error)
}

// ModelClient is the slice of the model client the generator needs.
type ModelClient interface {
	Complete(ctx context.Context, req vision.CompletionRequest) (vision.CompletionResult, error)
}

// Config carries the model parameters for the care-plan call.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

type service struct {
	cfg     Config
	client  ModelClient
	logger  *slog.Logger
	encoder *tiktoken.Tiktoken
}

// NewService is a wire provider for the care-plan domain.
func NewService(cfg Config, client ModelClient, logger *slog.Logger) Service {
	// Prompt-size accounting only; a missing encoding just disables it.
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, prompt accounting disabled", "error", err)
		encoder = nil
	}
	return &service{
		cfg:     cfg,
		client:  client,
		logger:  logger.With("component", "careplan.service"),
		encoder: encoder,
	}
}

func (s *service) Generate(ctx context.Context, commonName, scientificName string) (Plan, error) {
	if commonName == "" {
		return Plan{}, apperrors.Wrap("invalid_input", "plant name is required", nil)
	}

	prompt := fmt.Sprintf(carePlanPromptTemplate, commonName, scientificName, commonName)
	if s.encoder != nil {
		s.logger.Debug("care plan prompt built", "plant", commonName,
			"estimated_prompt_tokens", len(s.encoder.Encode(prompt, nil, nil)))
	}

	resp, err := s.client.Complete(ctx, vision.CompletionRequest{
		Model:       s.cfg.Model,
		Prompt:      prompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	if parseErr := json.Unmarshal([]byte(resp.Text), &plan); parseErr != nil {
		s.logger.Error("care plan response is not valid JSON",
			"plant", commonName, "error", parseErr)
		return Plan{}, apperrors.Wrap("careplan_parse", "failed to generate care plan", parseErr)
	}

	logAttrs := []any{"plant", plan.PlantName}
	if !resp.Usage.IsZero() {
		logAttrs = append(logAttrs,
			"prompt_tokens", resp.Usage.PromptTokens, "total_tokens", resp.Usage.TotalTokens)
	}
	s.logger.Info("care plan generated", logAttrs...)

	return plan, nil
}
