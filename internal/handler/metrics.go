package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// MetricsHandler serves the usage summary endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) Summary(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	summary, err := h.metrics.Summary(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MetricsSummaryResponse{
		Success:       true,
		Period:        fmt.Sprintf("%dd", summary.Days),
		MessageCount:  summary.MessageCount,
		AdherenceRate: summary.AdherenceRate,
		BySpecialty:   summary.BySpecialty,
	})
}
