package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
	"github.com/saglikasistani/backend/pkg/model"
)

// EmergencyHandler serves the SOS contacts, info card and event
// endpoints.
type EmergencyHandler struct {
	emergency *service.EmergencyService
}

func NewEmergencyHandler(emergency *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{emergency: emergency}
}

func (h *EmergencyHandler) Contacts(c *gin.Context) {
	contacts, err := h.emergency.Contacts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ContactListResponse{Success: true, Contacts: contacts})
}

func (h *EmergencyHandler) AddContact(c *gin.Context) {
	var req api.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	contact, err := h.emergency.AddContact(c.Request.Context(), currentUserID(c), req.Name, req.Phone, req.Relation)
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "contact": contact})
}

func (h *EmergencyHandler) RemoveContact(c *gin.Context) {
	if err := h.emergency.RemoveContact(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}

func (h *EmergencyHandler) Info(c *gin.Context) {
	info, err := h.emergency.Info(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.EmergencyInfoResponse{Success: true, Info: info})
}

func (h *EmergencyHandler) SaveInfo(c *gin.Context) {
	var req api.SaveEmergencyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	info, err := h.emergency.SaveInfo(c.Request.Context(), currentUserID(c), model.EmergencyInfo{
		BloodType:  req.BloodType,
		Allergies:  req.Allergies,
		Conditions: req.Conditions,
		Notes:      req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.EmergencyInfoResponse{Success: true, Info: info})
}

func (h *EmergencyHandler) RecordSOS(c *gin.Context) {
	var req api.RecordSOSRequest
	// Location sharing is optional.
	_ = c.ShouldBindJSON(&req)

	event, err := h.emergency.RecordSOS(c.Request.Context(), currentUserID(c), req.Latitude, req.Longitude)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}

func (h *EmergencyHandler) RecordCall(c *gin.Context) {
	var req api.RecordCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	event, err := h.emergency.RecordCall(c.Request.Context(), currentUserID(c), req.Number)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}
