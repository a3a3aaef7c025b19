package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/apexrebate/insight-service/internal/services"
)

// Handlers contains all the API handlers with their dependencies
type Handlers struct {
	insightService *services.InsightService
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(insightService *services.InsightService, logger *zap.Logger) *Handlers {
	return &Handlers{
		insightService: insightService,
		logger:         logger,
	}
}

// RegisterRoutes wires the insight endpoints onto the router
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	apiV1 := router.Group("/api/v1")
	apiV1.Use(RequireUser())
	{
		apiV1.GET("/insights", h.GetUserInsights)
	}
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "insight-service",
		"version":   "v1.0",
		"timestamp": time.Now().UTC(),
	})
}

// GetUserInsights returns the full insight report for the authenticated user
func (h *Handlers) GetUserInsights(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)

	report, err := h.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}

		h.logger.Error("Failed to generate insights",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate insights")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
