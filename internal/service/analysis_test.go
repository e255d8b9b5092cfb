package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAnalysis_StructuredJSON(t *testing.T) {
	raw := `{"summary":"Hemoglobin slightly low","findings":["Hgb 11.2 g/dL"],"recommendations":["Iron-rich diet"],"warnings":[],"references":[],"urgency_level":"low"}`

	result := ResolveAnalysis(raw)

	require.Equal(t, AnalysisStructured, result.Kind)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "Hemoglobin slightly low", result.Analysis.Summary)
	assert.Equal(t, "low", result.Analysis.UrgencyLevel)
	assert.Equal(t, "Hemoglobin slightly low", result.Text)
}

func TestResolveAnalysis_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"summary\":\"Normal chest X-ray\",\"urgency_level\":\"low\"}\n```"

	result := ResolveAnalysis(raw)

	require.Equal(t, AnalysisStructured, result.Kind)
	assert.Equal(t, "Normal chest X-ray", result.Analysis.Summary)
}

func TestResolveAnalysis_PlainText(t *testing.T) {
	raw := "Baş ağrınız için bol su için ve dinlenin."

	result := ResolveAnalysis(raw)

	assert.Equal(t, AnalysisPlainText, result.Kind)
	assert.Nil(t, result.Analysis)
	assert.Equal(t, raw, result.Text)
}

func TestResolveAnalysis_ParseFailedKeepsRawText(t *testing.T) {
	raw := `{"summary": "truncated reply`

	result := ResolveAnalysis(raw)

	assert.Equal(t, AnalysisParseFailed, result.Kind)
	assert.Nil(t, result.Analysis)
	assert.Equal(t, raw, result.Text)
}

func TestResolveAnalysis_UnknownUrgencyBecomesMedium(t *testing.T) {
	raw := `{"summary":"Elevated glucose","urgency_level":"sort of concerning"}`

	result := ResolveAnalysis(raw)

	require.Equal(t, AnalysisStructured, result.Kind)
	assert.Equal(t, "medium", result.Analysis.UrgencyLevel)
}

func TestNormalizeUrgency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"low", "low"},
		{"LOW", "low"},
		{"medium", "medium"},
		{"high", "high"},
		{"critical", "high"},
		{"yüksek", "high"},
		{"", "medium"},
		{"banana", "medium"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUrgency(tt.input), "input %q", tt.input)
	}
}
