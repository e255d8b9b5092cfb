package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/repository"
	"github.com/saglikasistani/backend/internal/storage"
	"github.com/saglikasistani/backend/pkg/model"
)

const historyContextLimit = 20

// Completer is the slice of the AI client the chat service needs.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
	CompleteWithImage(ctx context.Context, systemPrompt, userPrompt, imageBase64, mimeType string) (string, error)
}

// ChatService runs specialty-scoped conversations and image analyses
// against the AI backend, charging each request to the daily allowance.
type ChatService struct {
	chats    *repository.ChatRepository
	profiles *ProfileService
	subs     *SubscriptionService
	ai       Completer
	blobs    storage.BlobStorage
	logger   *zap.Logger
}

func NewChatService(chats *repository.ChatRepository, profiles *ProfileService, subs *SubscriptionService, aiClient Completer, blobs storage.BlobStorage, logger *zap.Logger) *ChatService {
	return &ChatService{
		chats:    chats,
		profiles: profiles,
		subs:     subs,
		ai:       aiClient,
		blobs:    blobs,
		logger:   logger,
	}
}

// ChatReply is the outcome of one chat or analysis request.
type ChatReply struct {
	Message   *model.ChatMessage
	Remaining *int
}

// SendMessage processes one user message. Retries with the same message
// ID return the stored reply without charging the allowance again.
func (s *ChatService) SendMessage(ctx context.Context, userID, messageID, specialty, content, language string) (*ChatReply, error) {
	if userID == "" || messageID == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("user ID, message ID and content are required")
	}
	if !ValidSpecialty(specialty) {
		return nil, fmt.Errorf("unknown specialty: %s", specialty)
	}

	exists, err := s.chats.Exists(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check message: %w", err)
	}
	if exists {
		return s.replayReply(ctx, userID, messageID, specialty)
	}

	remaining, premium, err := s.subs.ConsumeMessage(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.chats.FindByUserAndSpecialty(ctx, userID, specialty, historyContextLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.buildSystemPrompt(ctx, userID, specialty, language)),
	}
	for _, msg := range history {
		if msg.Role == model.MessageRoleUser {
			messages = append(messages, openai.UserMessage(msg.Content))
		} else {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(content))

	response, err := s.ai.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("AI completion failed",
			zap.Error(err),
			zap.String("specialty", specialty))
		return nil, fmt.Errorf("AI completion failed: %w", err)
	}

	userMsg := &model.ChatMessage{
		ID:        messageID,
		UserID:    userID,
		Specialty: specialty,
		Role:      model.MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.chats.Insert(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	reply, err := s.saveReply(ctx, userID, specialty, response)
	if err != nil {
		return nil, err
	}

	out := &ChatReply{Message: reply}
	if !premium {
		out.Remaining = &remaining
	}
	return out, nil
}

// AnalysisType picks the instruction set used for an uploaded image.
type AnalysisType string

const (
	AnalysisTypeLab     AnalysisType = "lab"
	AnalysisTypeImaging AnalysisType = "imaging"
)

// AnalyzeImage uploads the image, asks the model for a structured
// analysis and stores both sides of the exchange. The reply always
// carries text even when the model's JSON was unusable.
func (s *ChatService) AnalyzeImage(ctx context.Context, userID, messageID string, kind AnalysisType, filename, contentType string, data []byte, note, language string) (*ChatReply, error) {
	if userID == "" || messageID == "" || len(data) == 0 {
		return nil, fmt.Errorf("user ID, message ID and image data are required")
	}

	exists, err := s.chats.Exists(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check message: %w", err)
	}
	if exists {
		return s.replayReply(ctx, userID, messageID, string(kind))
	}

	remaining, premium, err := s.subs.ConsumeMessage(ctx, userID)
	if err != nil {
		return nil, err
	}

	blobPath, err := s.blobs.UploadAnalysisImage(ctx, userID, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	userPrompt := analysisUserPrompt(kind)
	if strings.TrimSpace(note) != "" {
		userPrompt = userPrompt + "\n\nPatient note: " + note
	}

	response, err := s.ai.CompleteWithImage(ctx,
		s.analysisSystemPrompt(kind, language),
		userPrompt,
		base64.StdEncoding.EncodeToString(data),
		contentType)
	if err != nil {
		s.logger.Error("AI image analysis failed",
			zap.Error(err),
			zap.String("kind", string(kind)))
		return nil, fmt.Errorf("AI image analysis failed: %w", err)
	}

	userMsg := &model.ChatMessage{
		ID:        messageID,
		UserID:    userID,
		Specialty: string(kind),
		Role:      model.MessageRoleUser,
		Content:   note,
		ImagePath: &blobPath,
		CreatedAt: time.Now(),
	}
	if err := s.chats.Insert(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	reply, err := s.saveReply(ctx, userID, string(kind), response)
	if err != nil {
		return nil, err
	}

	out := &ChatReply{Message: reply}
	if !premium {
		out.Remaining = &remaining
	}
	return out, nil
}

// History returns the oldest-first conversation for one specialty, or
// all specialties when specialty is empty.
func (s *ChatService) History(ctx context.Context, userID, specialty string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	if specialty == "" {
		return s.chats.FindByUser(ctx, userID, limit)
	}
	if !ValidSpecialty(specialty) && specialty != string(AnalysisTypeLab) && specialty != string(AnalysisTypeImaging) {
		return nil, fmt.Errorf("unknown specialty: %s", specialty)
	}
	return s.chats.FindByUserAndSpecialty(ctx, userID, specialty, limit)
}

// saveReply resolves the model output once and persists the assistant
// message with the structured analysis when one parsed.
func (s *ChatService) saveReply(ctx context.Context, userID, specialty, response string) (*model.ChatMessage, error) {
	result := ResolveAnalysis(response)

	reply := &model.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Specialty: specialty,
		Role:      model.MessageRoleAssistant,
		Content:   result.Text,
		CreatedAt: time.Now(),
	}
	if result.Kind == AnalysisStructured {
		reply.Analysis = result.Analysis
	}
	if result.Kind == AnalysisParseFailed {
		s.logger.Warn("Model reply looked like JSON but did not parse",
			zap.String("specialty", specialty))
	}

	if err := s.chats.Insert(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return reply, nil
}

// replayReply serves a retried message ID from storage. The allowance
// is not charged and the model is not called again.
func (s *ChatService) replayReply(ctx context.Context, userID, messageID, specialty string) (*ChatReply, error) {
	history, err := s.chats.FindByUserAndSpecialty(ctx, userID, specialty, historyContextLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	for i, msg := range history {
		if msg.ID != messageID {
			continue
		}
		if i+1 < len(history) && history[i+1].Role == model.MessageRoleAssistant {
			reply := history[i+1]
			return &ChatReply{Message: &reply}, nil
		}
	}

	return nil, fmt.Errorf("no stored reply for message %s", messageID)
}

func (s *ChatService) buildSystemPrompt(ctx context.Context, userID, specialty, language string) string {
	var sb strings.Builder
	sb.WriteString("You are a medical assistant specialized in ")
	sb.WriteString(specialtyDescription(specialty))
	sb.WriteString(". Answer the patient's questions clearly and carefully. ")
	sb.WriteString("You are not a doctor; advise seeing one for anything serious. ")
	sb.WriteString(languageInstruction(language))

	if s.profiles != nil {
		if profile, err := s.profiles.GetProfile(ctx, userID); err == nil && profile != nil {
			sb.WriteString("\n\nPatient background:\n")
			sb.WriteString(profileSummary(profile))
		}
	}

	return sb.String()
}

func (s *ChatService) analysisSystemPrompt(kind AnalysisType, language string) string {
	var what string
	switch kind {
	case AnalysisTypeLab:
		what = "laboratory test results"
	default:
		what = "medical imaging (X-ray, MRI, CT, ultrasound)"
	}

	return fmt.Sprintf(`You are a medical assistant that analyzes %s from photos.

Return your analysis as valid JSON with this exact structure:
{
  "summary": "short overall assessment",
  "findings": ["individual observations"],
  "recommendations": ["what the patient should do"],
  "warnings": ["values or findings that need attention"],
  "references": ["normal ranges or guidelines used"],
  "urgency_level": "low/medium/high"
}

Rules:
- If the image is not readable or not a medical document, say so in the summary and set urgency_level to "medium"
- Never diagnose; describe findings and recommend seeing a doctor when warranted
- Return ONLY valid JSON, no additional text
- %s`, what, languageInstruction(language))
}

func analysisUserPrompt(kind AnalysisType) string {
	if kind == AnalysisTypeLab {
		return "Analyze the lab results in this image and return the JSON."
	}
	return "Analyze the medical image and return the JSON."
}

func languageInstruction(language string) string {
	if language == "" {
		language = "tr"
	}
	if language == "tr" {
		return "Respond in Turkish."
	}
	return "Respond in English."
}

func profileSummary(p *model.HealthProfile) string {
	var parts []string
	if p.BirthDate != nil {
		parts = append(parts, "Birth date: "+p.BirthDate.Format("2006-01-02"))
	}
	if p.Gender != "" {
		parts = append(parts, "Gender: "+p.Gender)
	}
	if p.ImportantDiseases != "" {
		parts = append(parts, "Chronic conditions: "+p.ImportantDiseases)
	}
	if p.Medications != "" {
		parts = append(parts, "Medications: "+p.Medications)
	}
	if p.Allergies != "" {
		parts = append(parts, "Allergies: "+p.Allergies)
	}
	if p.BloodType != "" {
		parts = append(parts, "Blood type: "+p.BloodType)
	}
	return strings.Join(parts, "\n")
}
