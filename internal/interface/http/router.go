package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurturemyplants/plantcare/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiters *Limiters, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(),
		errorHandlingMiddleware(logger),
	)

	api := router.Group("/api", limiters.General())
	{
		api.POST("/identify-plant", limiters.Identify(), handler.IdentifyPlant)
		api.POST("/generate-pdf", limiters.PDFExport(), handler.GeneratePDF)
		api.POST("/create-share-link", limiters.ShareCreation(), handler.CreateShareLink)
		api.GET("/plant/:shareCode", handler.SharedPlant)
	}

	router.GET("/health", handler.Health)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
