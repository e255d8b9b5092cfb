package service

import (
	"encoding/json"
	"strings"

	"github.com/saglikasistani/backend/pkg/model"
)

// AnalysisKind tags how a model reply was resolved.
type AnalysisKind string

const (
	AnalysisStructured  AnalysisKind = "structured"
	AnalysisPlainText   AnalysisKind = "plain_text"
	AnalysisParseFailed AnalysisKind = "parse_failed"
)

// AnalysisResult is the single resolution of a model reply, decided once
// at the AI boundary. Structured carries the parsed analysis, PlainText a
// conversational reply, ParseFailed the raw text of a reply that looked
// like JSON but was not.
type AnalysisResult struct {
	Kind     AnalysisKind
	Analysis *model.Analysis
	Text     string
}

// ResolveAnalysis classifies a raw model reply. Malformed JSON never
// becomes an error; the raw text always survives for display.
func ResolveAnalysis(raw string) AnalysisResult {
	cleaned := stripMarkdownFences(raw)

	if !strings.HasPrefix(cleaned, "{") {
		return AnalysisResult{Kind: AnalysisPlainText, Text: raw}
	}

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return AnalysisResult{Kind: AnalysisParseFailed, Text: raw}
	}

	analysis.UrgencyLevel = NormalizeUrgency(analysis.UrgencyLevel)
	return AnalysisResult{Kind: AnalysisStructured, Analysis: &analysis, Text: analysis.Summary}
}

// NormalizeUrgency maps an urgency value to low, medium or high. Unknown
// values become medium.
func NormalizeUrgency(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "düşük":
		return "low"
	case "high", "yüksek", "urgent", "critical":
		return "high"
	default:
		return "medium"
	}
}

// stripMarkdownFences removes the code fences some model replies wrap
// their JSON in.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
