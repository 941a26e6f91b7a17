package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/logger"
	"hirelens/resume-intel/internal/repositories"
)

const logPreviewLen = 200

// InsightGenerator produces raw generation-service output for the two prompt
// shapes. No parsing happens here; transport/auth failures surface as
// ErrGenerationFailed and are never swallowed.
type InsightGenerator interface {
	AnalyzeProfile(ctx context.Context, resumeText, jobGoal string) (string, error)
	AnalyzeFit(ctx context.Context, jobDescription, candidateSummary string) (string, error)
}

type insightGenerator struct {
	gemini  GeminiService
	prompts *PromptBuilder
	logger  *zap.Logger
}

func NewInsightGenerator(gemini GeminiService, log *zap.Logger) InsightGenerator {
	return &insightGenerator{
		gemini:  gemini,
		prompts: NewPromptBuilder(),
		logger:  log,
	}
}

// AnalyzeProfile implements InsightGenerator.
func (g *insightGenerator) AnalyzeProfile(ctx context.Context, resumeText, jobGoal string) (string, error) {
	system, user := g.prompts.BuildProfileAnalysisPrompt(resumeText, jobGoal)
	return g.generate(ctx, "profile_analysis", system, user, 0.3)
}

// AnalyzeFit implements InsightGenerator.
func (g *insightGenerator) AnalyzeFit(ctx context.Context, jobDescription, candidateSummary string) (string, error) {
	system, user := g.prompts.BuildFitAnalysisPrompt(jobDescription, candidateSummary)
	return g.generate(ctx, "fit_analysis", system, user, 0.2)
}

func (g *insightGenerator) generate(ctx context.Context, shape, system, user string, temperature float32) (string, error) {
	g.logger.Debug("generation request",
		zap.String("shape", shape),
		zap.Int("prompt_length", len(user)),
		zap.String("prompt_preview", logger.TruncateForLog(user, logPreviewLen)),
	)

	raw, err := g.gemini.GenerateText(ctx, system, user, temperature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	g.logger.Debug("generation response",
		zap.String("shape", shape),
		zap.Int("response_length", len(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, logPreviewLen)),
	)

	return raw, nil
}

// InsightService owns the candidate-facing getOrCreateCandidateSummary
// operation: goal-aware cache check, pipeline run on a miss, persistence of
// the structured outcome.
type InsightService interface {
	GetOrCreateSummary(ctx context.Context, profileID uuid.UUID, jobGoal string) (SummaryResult, error)
}

type insightService struct {
	profileRepo repositories.ProfileRepository
	textCache   TextCache
	generator   InsightGenerator
	index       CandidateIndex
	logger      *zap.Logger
}

func NewInsightService(
	profileRepo repositories.ProfileRepository,
	textCache TextCache,
	generator InsightGenerator,
	index CandidateIndex,
	log *zap.Logger,
) InsightService {
	return &insightService{
		profileRepo: profileRepo,
		textCache:   textCache,
		generator:   generator,
		index:       index,
		logger:      log,
	}
}

// GetOrCreateSummary implements InsightService.
//
// The cache records the goal its payload was generated for: a call with a
// different goal regenerates instead of silently serving a summary produced
// for another target role. Raw fallbacks are returned but never cached, so a
// later call re-attempts from scratch.
func (s *insightService) GetOrCreateSummary(ctx context.Context, profileID uuid.UUID, jobGoal string) (SummaryResult, error) {
	jobGoal = strings.TrimSpace(jobGoal)

	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return SummaryResult{}, err
	}

	if profile.InsightPayload != nil && profile.InsightGoal != nil && *profile.InsightGoal == jobGoal {
		return NormalizeSummary(*profile.InsightPayload), nil
	}

	resumeText, err := s.textCache.GetOrExtractText(ctx, profileID)
	if err != nil {
		return SummaryResult{}, err
	}

	raw, err := s.generator.AnalyzeProfile(ctx, resumeText, jobGoal)
	if err != nil {
		return SummaryResult{}, err
	}

	result := NormalizeSummary(raw)
	if !result.IsStructured() {
		s.logger.Warn("profile analysis returned unparseable output",
			zap.String("profile_id", profileID.String()),
			zap.String("raw_preview", logger.TruncateForLog(result.Raw, logPreviewLen)),
		)
		return result, nil
	}

	if err := s.profileRepo.SaveInsight(profileID, result.Raw, jobGoal, result.Structured.Summary); err != nil {
		return SummaryResult{}, fmt.Errorf("failed to cache candidate summary: %w", err)
	}

	if s.index != nil {
		if err := s.index.IndexCandidate(ctx, profileID, resumeText, result.Structured.Summary); err != nil {
			// Search is best-effort; an index failure never fails the pipeline.
			s.logger.Warn("failed to index candidate",
				zap.String("profile_id", profileID.String()),
				zap.Error(err),
			)
		}
	}

	return result, nil
}
