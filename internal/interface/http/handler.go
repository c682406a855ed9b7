package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nurturemyplants/plantcare/internal/domain/analysis"
	"github.com/nurturemyplants/plantcare/internal/domain/share"
	"github.com/nurturemyplants/plantcare/internal/infra/config"
	"github.com/nurturemyplants/plantcare/internal/infra/pdf"
	apperrors "github.com/nurturemyplants/plantcare/pkg/errors"
	"github.com/nurturemyplants/plantcare/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	analysisSvc   analysis.Service
	shareSvc      share.Service
	renderer      *pdf.Renderer
	publicBaseURL string
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(analysisSvc analysis.Service, shareSvc share.Service, renderer *pdf.Renderer, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		analysisSvc:   analysisSvc,
		shareSvc:      shareSvc,
		renderer:      renderer,
		publicBaseURL: cfg.HTTP.PublicBaseURL,
		logger:        logger.With("component", "http.handler"),
	}
}

type identifyRequest struct {
	ImageBase64 string `json:"imageBase64"`
	SessionID   string `json:"sessionId"`
}

type plantDataRequest struct {
	PlantData share.PlantData `json:"plantData"`
	SessionID string          `json:"sessionId"`
}

// IdentifyPlant runs the two-step identification and care-plan pipeline.
func (h *Handler) IdentifyPlant(c *gin.Context) {
	var req identifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Image data is required", err))
		return
	}
	if req.ImageBase64 == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Image data is required", nil))
		return
	}

	result, err := h.analysisSvc.Analyze(c.Request.Context(), req.ImageBase64, req.SessionID)
	if err != nil {
		h.abortAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) abortAnalysisError(c *gin.Context, err error) {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
	case apperrors.IsCode(err, "config_error"):
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "api_configuration_error", "API configuration error", err))
	case apperrors.IsCode(err, "rate_limited"):
		// The upstream provider throttled us; the client may simply retry.
		h.logger.Warn("upstream rate limit", "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      "Rate limit exceeded",
			"message":    "Rate limit exceeded. Please try again later.",
			"retryAfter": "1 minute",
		})
	case apperrors.IsCode(err, "identify_parse"):
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "identification_failed", "Failed to identify plant", err))
	case apperrors.IsCode(err, "careplan_parse"):
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "care_plan_failed", "Failed to generate care plan", err))
	default:
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "identification_failed", "Failed to process plant identification", err))
	}
}

// GeneratePDF renders a downloadable care sheet for an existing result.
func (h *Handler) GeneratePDF(c *gin.Context) {
	var req plantDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Plant data is required", err))
		return
	}

	document, err := h.renderer.Render(req.PlantData)
	if err != nil {
		if apperrors.IsCode(err, "invalid_input") {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "pdf_failed", "Failed to generate PDF", err))
		return
	}

	filename := fmt.Sprintf("care-plan-%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

// CreateShareLink stores a snapshot and answers with its code and URL.
func (h *Handler) CreateShareLink(c *gin.Context) {
	var req plantDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Plant data is required", err))
		return
	}

	entry, err := h.shareSvc.Create(c.Request.Context(), req.PlantData, req.SessionID)
	if err != nil {
		if apperrors.IsCode(err, "invalid_input") {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "share_failed", "Failed to create share link", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shareCode": entry.ShareCode,
		"shareUrl":  h.shareURL(c, entry.ShareCode),
		"expiresAt": entry.ExpiresAt,
	})
}

// SharedPlant resolves a share code to its stored snapshot.
func (h *Handler) SharedPlant(c *gin.Context) {
	code := c.Param("shareCode")

	entry, ok, err := h.shareSvc.Get(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "share_failed", "Failed to access shared plant", err))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "Share link not found or expired", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plantData": entry.PlantData,
		"createdAt": entry.CreatedAt,
		"expiresAt": entry.ExpiresAt,
	})
}

// Health answers the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": util.NowUTC(),
	})
}

func (h *Handler) shareURL(c *gin.Context, code string) string {
	base := h.publicBaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return fmt.Sprintf("%s/plant/%s", base, code)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
