package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/repositories"
)

// TextCache is the read-through cache in front of document fetch + extraction.
// A cache hit and a cache miss are observably identical except latency.
// Invalidation is the uploader's job: replacing a resume clears the cached
// text, this service never invalidates on its own.
type TextCache interface {
	GetOrExtractText(ctx context.Context, profileID uuid.UUID) (string, error)
}

type textCache struct {
	profileRepo repositories.ProfileRepository
	fetcher     DocumentFetcher
	extractor   FormatExtractor
	logger      *zap.Logger
}

func NewTextCache(
	profileRepo repositories.ProfileRepository,
	fetcher DocumentFetcher,
	extractor FormatExtractor,
	logger *zap.Logger,
) TextCache {
	return &textCache{
		profileRepo: profileRepo,
		fetcher:     fetcher,
		extractor:   extractor,
		logger:      logger,
	}
}

// GetOrExtractText implements TextCache.
func (t *textCache) GetOrExtractText(ctx context.Context, profileID uuid.UUID) (string, error) {
	profile, err := t.profileRepo.FindByID(profileID)
	if err != nil {
		return "", err
	}

	if profile.CachedText != nil && strings.TrimSpace(*profile.CachedText) != "" {
		return *profile.CachedText, nil
	}

	if !profile.HasResume() {
		return "", ErrNoResumeUploaded
	}

	data, err := t.fetcher.Fetch(ctx, profile.ResumeFile)
	if err != nil {
		return "", err
	}

	text, err := t.extractor.ExtractText(profile.ResumeFile, data)
	if err != nil {
		return "", err
	}

	if err := t.profileRepo.SaveCachedText(profileID, text); err != nil {
		return "", fmt.Errorf("failed to cache resume text: %w", err)
	}

	t.logger.Debug("resume text extracted and cached",
		zap.String("profile_id", profileID.String()),
		zap.String("reference", profile.ResumeFile),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
