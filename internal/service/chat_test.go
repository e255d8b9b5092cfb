package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/pkg/model"
)

func TestBuildSystemPrompt_SpecialtyAndLanguage(t *testing.T) {
	svc := &ChatService{logger: zap.NewNop()}

	prompt := svc.buildSystemPrompt(context.Background(), "u1", "cardiology", "tr")
	assert.Contains(t, prompt, "cardiology and heart health")
	assert.Contains(t, prompt, "Respond in Turkish.")

	prompt = svc.buildSystemPrompt(context.Background(), "u1", "nonsense", "en")
	assert.Contains(t, prompt, "general medicine")
	assert.Contains(t, prompt, "Respond in English.")
}

func TestLanguageInstruction_DefaultsToTurkish(t *testing.T) {
	assert.Equal(t, "Respond in Turkish.", languageInstruction(""))
	assert.Equal(t, "Respond in Turkish.", languageInstruction("tr"))
	assert.Equal(t, "Respond in English.", languageInstruction("en"))
	assert.Equal(t, "Respond in English.", languageInstruction("de"))
}

func TestAnalysisSystemPrompt_MentionsDocumentKind(t *testing.T) {
	svc := &ChatService{logger: zap.NewNop()}

	lab := svc.analysisSystemPrompt(AnalysisTypeLab, "en")
	assert.Contains(t, lab, "laboratory test results")
	assert.Contains(t, lab, "urgency_level")

	imaging := svc.analysisSystemPrompt(AnalysisTypeImaging, "en")
	assert.Contains(t, imaging, "medical imaging")
}

func TestProfileSummary_SkipsEmptyFields(t *testing.T) {
	birth := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	profile := &model.HealthProfile{
		BirthDate:         &birth,
		Gender:            "female",
		ImportantDiseases: "diabetes,hypertension",
	}

	summary := profileSummary(profile)
	assert.Contains(t, summary, "Birth date: 1985-06-15")
	assert.Contains(t, summary, "Chronic conditions: diabetes,hypertension")
	assert.NotContains(t, summary, "Allergies")
	assert.NotContains(t, summary, "Blood type")
}

func TestValidSpecialty(t *testing.T) {
	assert.True(t, ValidSpecialty(""))
	assert.True(t, ValidSpecialty("general"))
	assert.True(t, ValidSpecialty("dermatology"))
	assert.False(t, ValidSpecialty("astrology"))
}
