package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
	"github.com/saglikasistani/backend/pkg/model"
)

const maxPhotoBytes = 5 << 20

// ProfileHandler serves the health profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusOK, api.ProfileResponse{Success: true})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ProfileResponse{Success: true, Profile: profile})
}

func (h *ProfileHandler) Save(c *gin.Context) {
	var req api.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	userID := currentUserID(c)

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if err != repository.ErrNotFound {
			respondServiceError(c, err)
			return
		}
		profile = &model.HealthProfile{UserID: userID}
	}

	applyProfilePatch(profile, &req)

	if err := h.profiles.SaveProfile(c.Request.Context(), profile); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ProfileResponse{Success: true, Profile: profile})
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "photo file is required")
		return
	}
	if file.Size > maxPhotoBytes {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "photo exceeds the 5 MB limit")
		return
	}

	reader, err := file.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer reader.Close()

	path, err := h.profiles.UploadPhoto(c.Request.Context(), currentUserID(c), file.Header.Get("Content-Type"), reader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "photo_path": path})
}

func applyProfilePatch(profile *model.HealthProfile, req *api.SaveProfileRequest) {
	if req.BirthDate != nil {
		birth := req.BirthDate.Time
		profile.BirthDate = &birth
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.ImportantDiseases != nil {
		profile.ImportantDiseases = *req.ImportantDiseases
	}
	if req.Medications != nil {
		profile.Medications = *req.Medications
	}
	if req.Height != nil {
		profile.Height = *req.Height
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}
	if req.BloodType != nil {
		profile.BloodType = *req.BloodType
	}
	if req.Allergies != nil {
		profile.Allergies = *req.Allergies
	}
}
