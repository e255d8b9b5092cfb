package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// MedicationHandler serves the medication CRUD endpoints.
type MedicationHandler struct {
	medications *service.MedicationService
}

func NewMedicationHandler(medications *service.MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

func (h *MedicationHandler) List(c *gin.Context) {
	medications, err := h.medications.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MedicationListResponse{Success: true, Medications: medications})
}

func (h *MedicationHandler) Create(c *gin.Context) {
	var req api.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input := service.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Times:     req.Times,
		StartDate: req.StartDate.Time,
		Notes:     req.Notes,
		Color:     req.Color,
		Icon:      req.Icon,
	}
	if req.EndDate != nil {
		end := req.EndDate.Time
		input.EndDate = &end
	}

	medication, err := h.medications.Create(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
		return
	}

	c.JSON(http.StatusCreated, api.MedicationResponse{Success: true, Medication: *medication})
}

func (h *MedicationHandler) Update(c *gin.Context) {
	var req api.UpdateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input := service.MedicationInput{
		Times:  req.Times,
		Notes:  req.Notes,
		Active: req.Active,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Dosage != nil {
		input.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		input.Frequency = *req.Frequency
	}
	if req.EndDate != nil {
		end := req.EndDate.Time
		input.EndDate = &end
	}

	medication, err := h.medications.Update(c.Request.Context(), c.Param("id"), currentUserID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MedicationResponse{Success: true, Medication: *medication})
}

func (h *MedicationHandler) Delete(c *gin.Context) {
	if err := h.medications.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{Success: true})
}
