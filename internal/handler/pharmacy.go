package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// PharmacyHandler serves the pharmacy and hospital lookup endpoints.
type PharmacyHandler struct {
	pharmacies *service.PharmacyService
}

func NewPharmacyHandler(pharmacies *service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacies: pharmacies}
}

func (h *PharmacyHandler) OnDuty(c *gin.Context) {
	city := c.Query("city")
	district := c.Query("district")
	if city == "" {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "city is required")
		return
	}

	pharmacies, err := h.pharmacies.DutyPharmacies(c.Request.Context(), city, district)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.PharmacyListResponse{
		Success:    true,
		City:       city,
		District:   district,
		Pharmacies: pharmacies,
	})
}

func (h *PharmacyHandler) NearbyHospitals(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "lat and lng are required")
		return
	}

	hospitals, err := h.pharmacies.NearbyHospitals(c.Request.Context(), lat, lng)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.HospitalListResponse{Success: true, Hospitals: hospitals})
}
