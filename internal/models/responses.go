package models

type UploadResponse struct {
	ProfileID    string `json:"profile_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type InsightRequest struct {
	JobGoal string `json:"job_goal"`
}

// InsightResponse carries exactly one of Structured or Raw. Consumers must
// branch on which outcome came back instead of assuming success.
type InsightResponse struct {
	Structured interface{} `json:"structured,omitempty"`
	Raw        string      `json:"raw,omitempty"`
}

// ShortlistStatus is the terminal state of one application's enrichment.
type ShortlistStatus string

const (
	ShortlistScored   ShortlistStatus = "scored"
	ShortlistUnscored ShortlistStatus = "unscored"
	ShortlistFailed   ShortlistStatus = "failed"
)

// RankedApplication is an application annotated with its fit assessment.
// FitScore is nil when the candidate could not be scored; nil-scored entries
// sort after every scored one.
type RankedApplication struct {
	ApplicationID string          `json:"application_id"`
	ProfileID     string          `json:"profile_id"`
	CandidateName string          `json:"candidate_name"`
	FitScore      *int            `json:"fit_score"`
	Explanation   string          `json:"explanation,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	Status        ShortlistStatus `json:"status"`
}

type ShortlistResponse struct {
	JobID        string              `json:"job_id"`
	JobTitle     string              `json:"job_title"`
	Applications []RankedApplication `json:"applications"`
}

type CandidateMatch struct {
	ProfileID string  `json:"profile_id"`
	Score     float32 `json:"score"`
	Kind      string  `json:"kind"`
	Text      string  `json:"text"`
}

type SearchResponse struct {
	Query   string           `json:"query"`
	Matches []CandidateMatch `json:"matches"`
}
