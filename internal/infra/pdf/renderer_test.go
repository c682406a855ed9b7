package pdf

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/domain/share"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
)

func newTestRenderer() *Renderer {
	return NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRenderProducesPDF(t *testing.T) {
	r := newTestRenderer()

	data := share.PlantData{
		Identification: identify.Identification{
			CommonName:          "Monstera Deliciosa",
			ScientificName:      "Monstera deliciosa",
			Confidence:          "high",
			IdentifyingFeatures: []string{"Fenestrated leaves", "Aerial roots"},
		},
		CarePlan: &careplan.Plan{
			PlantName:      "Monstera Deliciosa",
			Watering:       careplan.Watering{Frequency: "Every 7-10 days", Amount: "Until water drains"},
			Light:          careplan.Light{Ideal: "Bright indirect light"},
			Temperature:    careplan.Temperature{Optimal: "18-27C", Minimum: "10C"},
			Humidity:       "60% or higher",
			Soil:           careplan.Soil{Type: "Aroid mix", PH: "5.5-7.0", Drainage: "Essential"},
			Fertilizing:    careplan.Fertilizing{Schedule: "Monthly", Type: "Balanced liquid"},
			CommonProblems: []careplan.Problem{{Issue: "Yellowing leaves", Solution: "Reduce watering"}},
			Maintenance:    careplan.Maintenance{Pruning: "Spring", Repotting: "Every 2 years"},
			Tips:           []string{"Wipe leaves monthly"},
		},
	}

	out, err := r.Render(data)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderWithoutCarePlanStillProducesPDF(t *testing.T) {
	r := newTestRenderer()

	out, err := r.Render(share.PlantData{
		Identification: identify.Identification{CommonName: "Rose", Confidence: "medium"},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRejectsMissingIdentification(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render(share.PlantData{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}
