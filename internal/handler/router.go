package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/middleware"
	"github.com/saglikasistani/backend/internal/token"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Onboarding   *OnboardingHandler
	Profile      *ProfileHandler
	Chat         *ChatHandler
	Medication   *MedicationHandler
	Reminder     *ReminderHandler
	Subscription *SubscriptionHandler
	Emergency    *EmergencyHandler
	Pharmacy     *PharmacyHandler
	Metrics      *MetricsHandler

	Tokens token.Maker
	Pool   *pgxpool.Pool
	Logger *zap.Logger
}

// RegisterRoutes mounts every endpoint on the router. The auth routes
// are open; everything else requires a valid token.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.healthCheck)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(5, 10))
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/social", h.Auth.SocialLogin)
		auth.POST("/guest", h.Auth.GuestLogin)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.Tokens))
	{
		authed.DELETE("/auth/account", h.Auth.DeleteAccount)

		authed.GET("/profile", h.Profile.Get)
		authed.PUT("/profile", h.Profile.Save)
		authed.POST("/profile/photo", h.Profile.UploadPhoto)

		onboarding := authed.Group("/onboarding")
		{
			onboarding.POST("/start", h.Onboarding.Start)
			onboarding.GET("/state", h.Onboarding.State)
			onboarding.POST("/answer", h.Onboarding.Answer)
			onboarding.POST("/back", h.Onboarding.Back)
			onboarding.POST("/skip", h.Onboarding.Skip)
			onboarding.POST("/complete", h.Onboarding.Complete)
		}

		authed.POST("/chat/message", h.Chat.SendMessage)
		authed.POST("/chat/image", h.Chat.SendImage)
		authed.GET("/chat/history", h.Chat.History)
		authed.GET("/chat/history/:specialty", h.Chat.HistoryBySpecialty)
		authed.POST("/analysis/lab", h.Chat.AnalyzeLab)
		authed.POST("/analysis/imaging", h.Chat.AnalyzeImaging)

		authed.GET("/medications", h.Medication.List)
		authed.POST("/medications", h.Medication.Create)
		authed.PUT("/medications/:id", h.Medication.Update)
		authed.DELETE("/medications/:id", h.Medication.Delete)

		authed.GET("/reminders/today", h.Reminder.Today)
		authed.POST("/reminders/:id/taken", h.Reminder.MarkTaken)
		authed.POST("/reminders/:id/skip", h.Reminder.MarkSkipped)
		authed.GET("/reminders/adherence", h.Reminder.Adherence)

		authed.GET("/subscription", h.Subscription.Get)
		authed.PUT("/subscription", h.Subscription.Update)

		emergency := authed.Group("/emergency")
		{
			emergency.GET("/contacts", h.Emergency.Contacts)
			emergency.POST("/contacts", h.Emergency.AddContact)
			emergency.DELETE("/contacts/:id", h.Emergency.RemoveContact)
			emergency.GET("/info", h.Emergency.Info)
			emergency.PUT("/info", h.Emergency.SaveInfo)
			emergency.POST("/sos", h.Emergency.RecordSOS)
			emergency.POST("/call", h.Emergency.RecordCall)
		}

		authed.GET("/pharmacies/on-duty", h.Pharmacy.OnDuty)
		authed.GET("/hospitals/nearby", h.Pharmacy.NearbyHospitals)

		authed.GET("/metrics/summary", h.Metrics.Summary)
	}
}

func (h *Handlers) healthCheck(c *gin.Context) {
	if err := h.Pool.Ping(c.Request.Context()); err != nil {
		h.Logger.Error("Health check failed: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"service":  "saglik-asistani-backend",
	})
}
