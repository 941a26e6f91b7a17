package services

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeSummaryFencedJSON(t *testing.T) {
	raw := "```json\n{\"skills\": [\"Go\", \"PostgreSQL\"], \"summary\": \"Seasoned backend engineer.\", \"ats_score\": 82}\n```"

	result := NormalizeSummary(raw)
	if !result.IsStructured() {
		t.Fatalf("expected structured result, got raw: %q", result.Raw)
	}

	if got := result.Structured.Summary; got != "Seasoned backend engineer." {
		t.Fatalf("unexpected summary: %q", got)
	}

	if result.Structured.ATSScore != 82 {
		t.Fatalf("expected ats_score 82, got %d", result.Structured.ATSScore)
	}

	if strings.Contains(result.Structured.Summary, "```") {
		t.Fatalf("fence markers leaked into parsed field: %q", result.Structured.Summary)
	}

	if !reflect.DeepEqual(result.Structured.Skills, []string{"Go", "PostgreSQL"}) {
		t.Fatalf("unexpected skills: %v", result.Structured.Skills)
	}
}

func TestNormalizeSummaryUntaggedFence(t *testing.T) {
	raw := "```\n{\"summary\": \"ok\", \"ats_score\": 50}\n```"

	result := NormalizeSummary(raw)
	if !result.IsStructured() {
		t.Fatalf("expected structured result, got raw: %q", result.Raw)
	}

	if result.Structured.ATSScore != 50 {
		t.Fatalf("expected ats_score 50, got %d", result.Structured.ATSScore)
	}
}

func TestNormalizeSummaryGibberishFallsBack(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "not json at all", "not json at all"},
		{"padded", "  not json at all \n", "not json at all"},
		{"half json", "{\"skills\": [", "{\"skills\": ["},
		{"wrong types", `{"ats_score": "very high"}`, `{"ats_score": "very high"}`},
		{"json scalar", `"just a string"`, `"just a string"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeSummary(tc.input)
			if result.IsStructured() {
				t.Fatalf("expected raw fallback for %q", tc.input)
			}
			if result.Raw != tc.want {
				t.Fatalf("raw content lost: got %q, want %q", result.Raw, tc.want)
			}
		})
	}
}

func TestNormalizeSummaryRoundTrip(t *testing.T) {
	original := CandidateSummary{
		Skills:                 []string{"Go", "Kubernetes", "AWS"},
		Summary:                "Backend engineer with platform experience.",
		ATSScore:               88,
		Strengths:              []string{"Distributed systems"},
		Weaknesses:             []string{"No frontend exposure"},
		ImprovementSuggestions: []string{"Add quantified impact"},
		RecommendedRoles:       []string{"Platform Engineer"},
		YearsExperience:        "7 years",
		Education:              "BSc Computer Science",
		SoftSkills:             []string{"Mentoring"},
	}

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	result := NormalizeSummary(string(encoded))
	if !result.IsStructured() {
		t.Fatalf("expected structured result, got raw: %q", result.Raw)
	}

	if !reflect.DeepEqual(*result.Structured, original) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", *result.Structured, original)
	}
}

func TestNormalizeFit(t *testing.T) {
	cases := []struct {
		name       string
		input      string
		structured bool
		score      int
	}{
		{"plain object", `{"fit_score": 74, "explanation": "Solid overlap"}`, true, 74},
		{"fenced", "```json\n{\"fit_score\": 74, \"explanation\": \"Solid overlap\"}\n```", true, 74},
		{"score as string", `{"fit_score": "61", "explanation": "ok"}`, true, 61},
		{"score as float", `{"fit_score": 61.7, "explanation": "ok"}`, true, 62},
		{"clamped high", `{"fit_score": 130, "explanation": "ok"}`, true, 100},
		{"clamped low", `{"fit_score": -4, "explanation": "ok"}`, true, 0},
		{"missing score", `{"explanation": "ok"}`, false, 0},
		{"unparsable score", `{"fit_score": "high"}`, false, 0},
		{"gibberish", "certainly! here is my assessment", false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeFit(tc.input)

			if result.IsStructured() != tc.structured {
				t.Fatalf("structured = %v, want %v (raw: %q)", result.IsStructured(), tc.structured, result.Raw)
			}

			if tc.structured && result.Assessment.FitScore != tc.score {
				t.Fatalf("fit_score = %d, want %d", result.Assessment.FitScore, tc.score)
			}

			if !tc.structured && result.Raw == "" {
				t.Fatal("raw fallback lost the original content")
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"tagged fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"single line", "```{\"a\": 1}```", `{"a": 1}`},
		{"whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.input); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
