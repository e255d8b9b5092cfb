package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// ReminderHandler serves the daily reminder and adherence endpoints.
type ReminderHandler struct {
	reminders *service.ReminderService
}

func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

func (h *ReminderHandler) Today(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	reminders, err := h.reminders.ListForDate(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
		return
	}

	c.JSON(http.StatusOK, api.ReminderListResponse{
		Success:   true,
		Date:      date,
		Reminders: reminders,
	})
}

func (h *ReminderHandler) MarkTaken(c *gin.Context) {
	if err := h.reminders.Take(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func (h *ReminderHandler) MarkSkipped(c *gin.Context) {
	var req api.SkipReminderRequest
	// The reason is optional.
	_ = c.ShouldBindJSON(&req)

	if err := h.reminders.Skip(c.Request.Context(), c.Param("id"), currentUserID(c), req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func (h *ReminderHandler) Adherence(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	summary, err := h.reminders.Adherence(c.Request.Context(), currentUserID(c), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.AdherenceResponse{
		Success: true,
		Days:    summary.Days,
		Taken:   summary.Taken,
		Total:   summary.Total,
		Rate:    summary.Rate,
	})
}
