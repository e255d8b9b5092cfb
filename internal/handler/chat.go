package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saglikasistani/backend/internal/service"
	"github.com/saglikasistani/backend/pkg/api"
)

const maxAnalysisImageBytes = 10 << 20

// ChatHandler serves the conversation and image analysis endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req api.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if req.MessageID == "" {
		req.MessageID = uuid.New().String()
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), currentUserID(c), req.MessageID, req.Specialty, req.Content, c.GetHeader("Accept-Language"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse(reply))
}

func (h *ChatHandler) AnalyzeLab(c *gin.Context) {
	h.analyze(c, service.AnalysisTypeLab)
}

func (h *ChatHandler) AnalyzeImaging(c *gin.Context) {
	h.analyze(c, service.AnalysisTypeImaging)
}

// SendImage is the generic image endpoint; the form's "type" field
// picks lab or imaging, defaulting to imaging.
func (h *ChatHandler) SendImage(c *gin.Context) {
	kind := service.AnalysisTypeImaging
	if c.PostForm("type") == string(service.AnalysisTypeLab) {
		kind = service.AnalysisTypeLab
	}
	h.analyze(c, kind)
}

func (h *ChatHandler) analyze(c *gin.Context, kind service.AnalysisType) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "image file is required")
		return
	}
	if file.Size > maxAnalysisImageBytes {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, "image exceeds the 10 MB limit")
		return
	}

	reader, err := file.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	messageID := c.PostForm("message_id")
	if messageID == "" {
		messageID = uuid.New().String()
	}

	reply, err := h.chat.AnalyzeImage(c.Request.Context(),
		currentUserID(c), messageID, kind,
		file.Filename, file.Header.Get("Content-Type"), data,
		c.PostForm("note"), c.GetHeader("Accept-Language"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse(reply))
}

func (h *ChatHandler) History(c *gin.Context) {
	h.history(c, "")
}

func (h *ChatHandler) HistoryBySpecialty(c *gin.Context) {
	h.history(c, c.Param("specialty"))
}

func (h *ChatHandler) history(c *gin.Context, specialty string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	messages, err := h.chat.History(c.Request.Context(), currentUserID(c), specialty, limit)
	if err != nil {
		respondError(c, http.StatusBadRequest, api.CodeValidationError, err.Error())
		return
	}

	c.JSON(http.StatusOK, api.HistoryResponse{Success: true, Messages: messages})
}

func chatResponse(reply *service.ChatReply) api.ChatResponse {
	return api.ChatResponse{
		Success:   true,
		Message:   *reply.Message,
		Remaining: reply.Remaining,
	}
}
