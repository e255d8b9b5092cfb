package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// OnboardingHandler serves the step-flow survey endpoints.
type OnboardingHandler struct {
	onboarding *service.OnboardingService
}

func NewOnboardingHandler(onboarding *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

func (h *OnboardingHandler) Start(c *gin.Context) {
	state, err := h.onboarding.Start(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.OnboardingStartResponse{
		Success:   true,
		SessionID: state.Session.ID,
		Step:      stepDescriptor(state),
		StepIndex: state.Session.CurrentStep,
		StepCount: len(state.Steps),
	})
}

func (h *OnboardingHandler) State(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "session_id is required")
		return
	}

	state, err := h.onboarding.State(c.Request.Context(), sessionID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

func (h *OnboardingHandler) Answer(c *gin.Context) {
	var req api.OnboardingAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	state, err := h.onboarding.Answer(c.Request.Context(), req.SessionID, currentUserID(c), req.Field, req.Value)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

func (h *OnboardingHandler) Back(c *gin.Context) {
	var req api.OnboardingNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	state, err := h.onboarding.Back(c.Request.Context(), req.SessionID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

func (h *OnboardingHandler) Skip(c *gin.Context) {
	var req api.OnboardingNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	state, err := h.onboarding.Skip(c.Request.Context(), req.SessionID, currentUserID(c))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

func (h *OnboardingHandler) Complete(c *gin.Context) {
	var req api.CompleteOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	state, err := h.onboarding.Complete(c.Request.Context(), req.SessionID, currentUserID(c))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

// respondFlowError treats validation failures from the flow engine as
// client errors rather than internal ones.
func (h *OnboardingHandler) respondFlowError(c *gin.Context, err error) {
	if service.IsFlowValidationError(err) {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
		return
	}
	respondServiceError(c, err)
}

func stateResponse(state *service.FlowState) api.OnboardingStateResponse {
	return api.OnboardingStateResponse{
		Success:   true,
		SessionID: state.Session.ID,
		Step:      stepDescriptor(state),
		StepIndex: state.Session.CurrentStep,
		StepCount: len(state.Steps),
		Completed: state.Completed,
		Answers:   state.Session.Answers,
	}
}

func stepDescriptor(state *service.FlowState) api.StepDescriptor {
	step := state.Step
	descriptor := api.StepDescriptor{
		Field:    step.Field,
		Type:     string(step.Type),
		TitleKey: step.TitleKey,
		Optional: step.Optional,
		Options:  step.Options,
	}
	if step.Field == service.FieldMedications {
		diseases := strings.Split(state.Session.Answers[service.FieldDiseases], ",")
		descriptor.Suggested = service.SuggestedMedications(diseases)
	}
	return descriptor
}
