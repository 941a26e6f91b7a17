package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/models"
)

type stubJobRepo struct {
	job *models.Job
}

func (s *stubJobRepo) FindByID(_ uuid.UUID) (*models.Job, error) {
	return s.job, nil
}

type stubAppRepo struct {
	apps []models.Application
}

func (s *stubAppRepo) FindByJobID(_ uuid.UUID) ([]models.Application, error) {
	return s.apps, nil
}

type stubInsightService struct {
	mu       sync.Mutex
	results  map[uuid.UUID]SummaryResult
	errs     map[uuid.UUID]error
	lastGoal string
	calls    int
}

func (s *stubInsightService) GetOrCreateSummary(_ context.Context, profileID uuid.UUID, jobGoal string) (SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastGoal = jobGoal
	if err, ok := s.errs[profileID]; ok {
		return SummaryResult{}, err
	}
	return s.results[profileID], nil
}

type stubFitScorer struct {
	mu     sync.Mutex
	scores map[string]int
	errs   map[string]error
	raw    map[string]bool
}

func (s *stubFitScorer) ScoreFit(_ context.Context, _, candidateSummary string) (FitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[candidateSummary]; ok {
		return FitResult{}, err
	}
	if s.raw[candidateSummary] {
		return FitResult{Raw: "no usable score"}, nil
	}
	score := s.scores[candidateSummary]
	return FitResult{
		Assessment: &FitAssessment{FitScore: score, Explanation: "because"},
		Raw:        "{}",
	}, nil
}

func appWithSummary(name, summary string) models.Application {
	profileID := uuid.New()
	app := models.Application{
		ID:        uuid.New(),
		ProfileID: profileID,
		Profile:   models.Profile{ID: profileID, Name: name},
	}
	if summary != "" {
		app.Profile.InsightSummary = &summary
	}
	return app
}

func newTestRanker(apps []models.Application, insight InsightService, scorer FitScorer) RankingAggregator {
	return NewRankingAggregator(
		&stubJobRepo{job: &models.Job{ID: uuid.New(), Title: "Backend Engineer", Description: "Go services"}},
		&stubAppRepo{apps: apps},
		insight,
		scorer,
		zap.NewNop(),
		3,
	)
}

func TestRankApplicationsDegradesPerCandidate(t *testing.T) {
	apps := []models.Application{
		appWithSummary("alice", "summary-alice"),
		appWithSummary("bob", "summary-bob"),
		appWithSummary("carol", "summary-carol"),
		appWithSummary("dave", "summary-dave"),
		appWithSummary("erin", "summary-erin"),
	}

	scorer := &stubFitScorer{
		scores: map[string]int{
			"summary-alice": 50,
			"summary-bob":   80,
			"summary-dave":  90,
			"summary-erin":  70,
		},
		errs: map[string]error{
			"summary-carol": ErrGenerationFailed,
		},
	}

	ranker := newTestRanker(apps, &stubInsightService{}, scorer)

	ranked, err := ranker.RankApplications(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("one candidate's failure must not abort the batch: %v", err)
	}

	if len(ranked) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(ranked))
	}

	wantOrder := []string{"dave", "bob", "erin", "alice", "carol"}
	for i, want := range wantOrder {
		if ranked[i].CandidateName != want {
			t.Fatalf("position %d: got %s, want %s", i, ranked[i].CandidateName, want)
		}
	}

	last := ranked[4]
	if last.FitScore != nil {
		t.Fatalf("failed candidate must have nil score, got %d", *last.FitScore)
	}
	if last.Status != models.ShortlistFailed {
		t.Fatalf("failed candidate status = %s", last.Status)
	}

	if *ranked[0].FitScore != 90 {
		t.Fatalf("top entry score = %d, want 90", *ranked[0].FitScore)
	}
}

func TestRankApplicationsStableTieOrder(t *testing.T) {
	apps := []models.Application{
		appWithSummary("first", "summary-first"),
		appWithSummary("second", "summary-second"),
		appWithSummary("third", "summary-third"),
	}

	scorer := &stubFitScorer{
		scores: map[string]int{
			"summary-first":  65,
			"summary-second": 65,
			"summary-third":  65,
		},
	}

	ranker := newTestRanker(apps, &stubInsightService{}, scorer)

	ranked, err := ranker.RankApplications(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if ranked[i].CandidateName != name {
			t.Fatalf("tie order not stable: position %d got %s, want %s", i, ranked[i].CandidateName, name)
		}
	}
}

func TestRankApplicationsGeneratesMissingSummary(t *testing.T) {
	app := appWithSummary("noel", "")

	insight := &stubInsightService{
		results: map[uuid.UUID]SummaryResult{
			app.ProfileID: {
				Structured: &CandidateSummary{Summary: "generated summary"},
				Raw:        "{}",
			},
		},
	}

	scorer := &stubFitScorer{scores: map[string]int{"generated summary": 42}}

	ranker := newTestRanker([]models.Application{app}, insight, scorer)

	ranked, err := ranker.RankApplications(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if insight.calls != 1 {
		t.Fatalf("expected one summary generation, got %d", insight.calls)
	}
	if insight.lastGoal != "" {
		t.Fatalf("ranking should request a role-agnostic summary, got goal %q", insight.lastGoal)
	}

	entry := ranked[0]
	if entry.Status != models.ShortlistScored {
		t.Fatalf("status = %s, want scored", entry.Status)
	}
	if entry.FitScore == nil || *entry.FitScore != 42 {
		t.Fatalf("unexpected score: %v", entry.FitScore)
	}
	if entry.Summary != "generated summary" {
		t.Fatalf("unexpected summary text: %q", entry.Summary)
	}
}

func TestRankApplicationsUnscoredOnRawFallback(t *testing.T) {
	rawApp := appWithSummary("raw", "")
	scoredApp := appWithSummary("scored", "summary-scored")

	insight := &stubInsightService{
		results: map[uuid.UUID]SummaryResult{
			rawApp.ProfileID: {Raw: "not json at all"},
		},
	}
	scorer := &stubFitScorer{scores: map[string]int{"summary-scored": 55}}

	ranker := newTestRanker([]models.Application{rawApp, scoredApp}, insight, scorer)

	ranked, err := ranker.RankApplications(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}

	// Scored entries sort ahead of nil-scored ones.
	if ranked[0].CandidateName != "scored" {
		t.Fatalf("expected scored candidate first, got %s", ranked[0].CandidateName)
	}

	fallback := ranked[1]
	if fallback.Status != models.ShortlistUnscored {
		t.Fatalf("status = %s, want unscored", fallback.Status)
	}
	if fallback.FitScore != nil {
		t.Fatalf("unscored candidate must have nil score, got %d", *fallback.FitScore)
	}
}

func TestRankApplicationsEnrichmentErrorIsFailed(t *testing.T) {
	app := appWithSummary("broken", "")

	insight := &stubInsightService{
		errs: map[uuid.UUID]error{app.ProfileID: ErrFetchFailed},
	}

	ranker := newTestRanker([]models.Application{app}, insight, &stubFitScorer{})

	ranked, err := ranker.RankApplications(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ranked[0].Status != models.ShortlistFailed {
		t.Fatalf("status = %s, want failed", ranked[0].Status)
	}
	if ranked[0].FitScore != nil {
		t.Fatal("failed candidate must have nil score")
	}
}
