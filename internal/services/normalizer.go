package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CandidateSummary is the structured schema the profile analysis prompt asks
// the generation service to produce.
type CandidateSummary struct {
	Skills                 []string `json:"skills"`
	Summary                string   `json:"summary"`
	ATSScore               int      `json:"ats_score"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	RecommendedRoles       []string `json:"recommended_roles"`
	YearsExperience        string   `json:"years_experience"`
	Education              string   `json:"education"`
	SoftSkills             []string `json:"soft_skills"`
}

// SummaryResult is the two-outcome value for the wide schema. Raw always
// carries the cleaned response text; Structured is nil when parsing failed.
// The generation service's shape violations are data, not faults: this type is
// how they stay data.
type SummaryResult struct {
	Structured *CandidateSummary
	Raw        string
}

// IsStructured reports whether parsing succeeded.
func (r SummaryResult) IsStructured() bool {
	return r.Structured != nil
}

// FitAssessment is the narrow schema for one candidate against one job.
type FitAssessment struct {
	FitScore    int    `json:"fit_score"`
	Explanation string `json:"explanation"`
}

// FitResult is the two-outcome value for the narrow schema.
type FitResult struct {
	Assessment *FitAssessment
	Raw        string
}

func (r FitResult) IsStructured() bool {
	return r.Assessment != nil
}

// NormalizeSummary parses raw generator output into a CandidateSummary.
// It never returns an error: malformed output degrades to the raw fallback
// with the cleaned text preserved.
func NormalizeSummary(raw string) SummaryResult {
	cleaned := StripCodeFence(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return SummaryResult{Raw: cleaned}
	}

	var summary CandidateSummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return SummaryResult{Raw: cleaned}
	}

	return SummaryResult{Structured: &summary, Raw: cleaned}
}

// NormalizeFit parses raw generator output into a FitAssessment. Scores are
// coerced from string/float variants the model is known to emit and clamped
// to [0,100]; a response with no usable fit_score degrades to the raw fallback.
func NormalizeFit(raw string) FitResult {
	cleaned := StripCodeFence(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return FitResult{Raw: cleaned}
	}

	scoreVal, ok := data["fit_score"]
	if !ok {
		return FitResult{Raw: cleaned}
	}

	score := coerceFloat(scoreVal)
	if math.IsNaN(score) {
		return FitResult{Raw: cleaned}
	}

	return FitResult{
		Assessment: &FitAssessment{
			FitScore:    clampScore(int(math.Round(score))),
			Explanation: coerceString(data["explanation"]),
		},
		Raw: cleaned,
	}
}

// StripCodeFence trims the text and removes a single leading fenced-code
// marker (optionally tagged with a language hint) and a single trailing one.
// The generation service is known to wrap JSON in such markers despite being
// told not to.
func StripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		// Drop a language tag on the opening fence line
		if idx := strings.Index(cleaned, "\n"); idx != -1 && !strings.ContainsAny(cleaned[:idx], "{[") {
			cleaned = cleaned[idx+1:]
		}
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}

	return strings.TrimSpace(cleaned)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(bytes)
	}
}
