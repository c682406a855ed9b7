package pdf

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"

	"github.com/nurturemyplants/plantcare/internal/domain/share"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
)

// Renderer turns an analysis snapshot into a downloadable care sheet.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer is a wire provider for the PDF exporter.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger.With("component", "pdf.renderer")}
}

// Render produces a single-document care sheet mirroring the result tabs:
// identification header, the eight care sections and the tips list.
func (r *Renderer) Render(data share.PlantData) ([]byte, error) {
	if data.Identification.CommonName == "" {
		return nil, apperrors.Wrap("invalid_input", "plant data is required", nil)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, data.Identification.CommonName, "", 1, "L", false, 0, "")
	if data.Identification.ScientificName != "" {
		doc.SetFont("Helvetica", "I", 12)
		doc.CellFormat(0, 8, data.Identification.ScientificName, "", 1, "L", false, 0, "")
	}
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Identification confidence: %s", data.Identification.Confidence), "", 1, "L", false, 0, "")
	doc.Ln(4)

	if len(data.Identification.IdentifyingFeatures) > 0 {
		r.section(doc, "Identifying Features")
		for _, feature := range data.Identification.IdentifyingFeatures {
			r.bullet(doc, feature)
		}
		doc.Ln(2)
	}

	plan := data.CarePlan
	if plan == nil {
		return r.output(doc)
	}

	r.section(doc, "Watering")
	r.field(doc, "Frequency", plan.Watering.Frequency)
	r.field(doc, "Amount", plan.Watering.Amount)
	r.field(doc, "Seasonal notes", plan.Watering.SeasonalNotes)

	r.section(doc, "Light")
	r.field(doc, "Ideal", plan.Light.Ideal)
	r.field(doc, "Tolerates", plan.Light.Tolerates)

	r.section(doc, "Temperature")
	r.field(doc, "Optimal", plan.Temperature.Optimal)
	r.field(doc, "Minimum", plan.Temperature.Minimum)

	r.section(doc, "Humidity")
	r.paragraph(doc, plan.Humidity)

	r.section(doc, "Soil")
	r.field(doc, "Type", plan.Soil.Type)
	r.field(doc, "pH", plan.Soil.PH)
	r.field(doc, "Drainage", plan.Soil.Drainage)

	r.section(doc, "Fertilizing")
	r.field(doc, "Schedule", plan.Fertilizing.Schedule)
	r.field(doc, "Type", plan.Fertilizing.Type)

	if len(plan.CommonProblems) > 0 {
		r.section(doc, "Common Problems")
		for _, problem := range plan.CommonProblems {
			r.field(doc, problem.Issue, problem.Solution)
		}
	}

	r.section(doc, "Maintenance")
	r.field(doc, "Pruning", plan.Maintenance.Pruning)
	r.field(doc, "Repotting", plan.Maintenance.Repotting)

	if len(plan.Tips) > 0 {
		r.section(doc, "Care Tips")
		for _, tip := range plan.Tips {
			r.bullet(doc, tip)
		}
	}

	return r.output(doc)
}

func (r *Renderer) output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		r.logger.Error("pdf rendering failed", "error", err)
		return nil, apperrors.Wrap("pdf_error", "failed to render care sheet", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) section(doc *fpdf.Fpdf, title string) {
	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
}

func (r *Renderer) field(doc *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(38, 6, label, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 6, value, "", "L", false)
}

func (r *Renderer) paragraph(doc *fpdf.Fpdf, text string) {
	if text == "" {
		return
	}
	doc.MultiCell(0, 6, text, "", "L", false)
}

func (r *Renderer) bullet(doc *fpdf.Fpdf, text string) {
	doc.CellFormat(6, 6, "-", "", 0, "L", false, 0, "")
	doc.MultiCell(0, 6, text, "", "L", false)
}
