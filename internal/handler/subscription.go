package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

// SubscriptionHandler serves the subscription state endpoints.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	subscription, err := h.subscriptions.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.SubscriptionResponse{Success: true, Subscription: *subscription})
}

func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req api.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	subscription, err := h.subscriptions.Update(c.Request.Context(), currentUserID(c), req.IsPremium, req.Plan, req.TrialEndDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.SubscriptionResponse{Success: true, Subscription: *subscription})
}
