package analysis

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/infra/imaging"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
	"github.com/nurturemyplants/plantcare/pkg/util"
)

// Service runs the full upload pipeline: preprocess, identify and, when the
// image shows a real plant, generate a care plan. The two model calls are
// strictly sequential; the second never starts unless the first confirms a
// plant.
type Service interface {
	Analyze(ctx context.Context, imageBase64, sessionID string) (Result, error)
}

// ImagePreprocessor normalizes an upload before it goes upstream.
type ImagePreprocessor interface {
	Process(data []byte) (imaging.Processed, error)
}

type service struct {
	preprocessor ImagePreprocessor
	identifier   identify.Service
	planner      careplan.Service
	logger       *slog.Logger
}

// NewService is a wire provider for the analysis pipeline.
func NewService(preprocessor ImagePreprocessor, identifier identify.Service, planner careplan.Service, logger *slog.Logger) Service {
	return &service{
		preprocessor: preprocessor,
		identifier:   identifier,
		planner:      planner,
		logger:       logger.With("component", "analysis.service"),
	}
}

func (s *service) Analyze(ctx context.Context, imageBase64, sessionID string) (Result, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	payload := identify.StripDataURI(imageBase64)
	if payload == "" {
		return Result{}, apperrors.Wrap("invalid_input", "image data is required", nil)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Result{}, apperrors.Wrap("invalid_input", "image data is not valid base64", err)
	}

	processed, err := s.preprocessor.Process(raw)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("processing plant identification", "session_id", sessionID,
		"image_bytes", len(processed.Data), "mime", processed.MIME)

	identified, err := s.identifier.Identify(ctx,
		base64.StdEncoding.EncodeToString(processed.Data), processed.MIME, sessionID)
	if err != nil {
		return Result{}, err
	}

	if !identified.IsPlant {
		return Result{
			Identification: identified.Identification,
			IsPlant:        false,
			Message:        NotAPlantMessage,
			SessionID:      sessionID,
			Timestamp:      util.NowUTC(),
		}, nil
	}

	plan, err := s.planner.Generate(ctx,
		identified.Identification.CommonName, identified.Identification.ScientificName)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Identification: identified.Identification,
		CarePlan:       &plan,
		IsPlant:        true,
		SessionID:      sessionID,
		Timestamp:      util.NowUTC(),
	}, nil
}
