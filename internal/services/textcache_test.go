package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/models"
)

type memProfileRepo struct {
	profiles map[uuid.UUID]*models.Profile
}

func newMemProfileRepo(profiles ...*models.Profile) *memProfileRepo {
	repo := &memProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *memProfileRepo) FindByID(id uuid.UUID) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.New("profile not found")
	}
	clone := *p
	return &clone, nil
}

func (r *memProfileRepo) ReplaceResume(id uuid.UUID, filename, originalName string) error {
	p, ok := r.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	p.ResumeFile = filename
	p.ResumeOriginalName = originalName
	p.CachedText = nil
	p.InsightPayload = nil
	p.InsightGoal = nil
	p.InsightSummary = nil
	return nil
}

func (r *memProfileRepo) ClearResume(id uuid.UUID) error {
	return r.ReplaceResume(id, "", "")
}

func (r *memProfileRepo) SaveCachedText(id uuid.UUID, text string) error {
	p, ok := r.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	p.CachedText = &text
	return nil
}

func (r *memProfileRepo) SaveInsight(id uuid.UUID, payload, goal, summary string) error {
	p, ok := r.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	p.InsightPayload = &payload
	p.InsightGoal = &goal
	p.InsightSummary = &summary
	return nil
}

type countingFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type countingExtractor struct {
	text  string
	err   error
	calls int
}

func (e *countingExtractor) ExtractText(_ string, _ []byte) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

func TestGetOrExtractTextReadThrough(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), ResumeFile: "resume_abc.pdf"}
	repo := newMemProfileRepo(profile)
	fetcher := &countingFetcher{data: []byte("%PDF-")}
	extractor := &countingExtractor{text: "5 years React, Node, AWS"}

	cache := NewTextCache(repo, fetcher, extractor, zap.NewNop())

	first, err := cache.GetOrExtractText(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "5 years React, Node, AWS" {
		t.Fatalf("unexpected text: %q", first)
	}

	second, err := cache.GetOrExtractText(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("unexpected error on cache hit: %v", err)
	}
	if second != first {
		t.Fatalf("cache hit returned different text: %q vs %q", second, first)
	}

	if fetcher.calls != 1 || extractor.calls != 1 {
		t.Fatalf("expected exactly one fetch+extract, got fetch=%d extract=%d", fetcher.calls, extractor.calls)
	}
}

func TestGetOrExtractTextNoResume(t *testing.T) {
	profile := &models.Profile{ID: uuid.New()}
	repo := newMemProfileRepo(profile)
	fetcher := &countingFetcher{}
	extractor := &countingExtractor{}

	cache := NewTextCache(repo, fetcher, extractor, zap.NewNop())

	_, err := cache.GetOrExtractText(context.Background(), profile.ID)
	if !errors.Is(err, ErrNoResumeUploaded) {
		t.Fatalf("expected ErrNoResumeUploaded, got %v", err)
	}

	if fetcher.calls != 0 || extractor.calls != 0 {
		t.Fatal("no fetch or extract should happen without a resume reference")
	}
}

func TestGetOrExtractTextFetchFailure(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), ResumeFile: "resume_abc.pdf"}
	repo := newMemProfileRepo(profile)
	fetchErr := errors.New("connection refused")
	fetcher := &countingFetcher{err: fetchErr}
	extractor := &countingExtractor{}

	cache := NewTextCache(repo, fetcher, extractor, zap.NewNop())

	_, err := cache.GetOrExtractText(context.Background(), profile.ID)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error to surface, got %v", err)
	}

	if extractor.calls != 0 {
		t.Fatal("extraction must not run when fetch fails")
	}
}

func TestGetOrExtractTextInvalidatedByReupload(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), ResumeFile: "resume_v1.pdf"}
	repo := newMemProfileRepo(profile)
	fetcher := &countingFetcher{data: []byte("%PDF-")}
	extractor := &countingExtractor{text: "version one"}

	cache := NewTextCache(repo, fetcher, extractor, zap.NewNop())

	if _, err := cache.GetOrExtractText(context.Background(), profile.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// New upload clears the cache; the next read must re-extract.
	if err := repo.ReplaceResume(profile.ID, "resume_v2.pdf", "cv.pdf"); err != nil {
		t.Fatalf("replace resume: %v", err)
	}
	extractor.text = "version two"

	text, err := cache.GetOrExtractText(context.Background(), profile.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "version two" {
		t.Fatalf("stale text served after re-upload: %q", text)
	}

	if fetcher.calls != 2 || extractor.calls != 2 {
		t.Fatalf("expected a second fetch+extract after re-upload, got fetch=%d extract=%d", fetcher.calls, extractor.calls)
	}
}
