package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/repositories"
)

// RankingAggregator produces the recruiter-facing AI shortlist: every
// application to a job, enriched concurrently and ordered by fit score.
// A candidate whose enrichment or scoring fails still gets an entry,
// marked failed with no score. One bad candidate never aborts the batch.
type RankingAggregator interface {
	RankApplications(ctx context.Context, jobID uuid.UUID) ([]models.RankedApplication, error)
}

type rankingAggregator struct {
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	insight     InsightService
	scorer      FitScorer
	logger      *zap.Logger
	concurrency int
}

func NewRankingAggregator(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	insight InsightService,
	scorer FitScorer,
	log *zap.Logger,
	concurrency int,
) RankingAggregator {
	if concurrency <= 0 {
		concurrency = 3
	}

	return &rankingAggregator{
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		insight:     insight,
		scorer:      scorer,
		logger:      log,
		concurrency: concurrency,
	}
}

// RankApplications implements RankingAggregator.
func (r *rankingAggregator) RankApplications(ctx context.Context, jobID uuid.UUID) ([]models.RankedApplication, error) {
	job, err := r.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	apps, err := r.appRepo.FindByJobID(jobID)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.RankedApplication, len(apps))

	// Enrichment is independent per application; the semaphore bounds
	// concurrent calls against the rate- and cost-sensitive generation service.
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i := range apps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				ranked[i] = failedEntry(&apps[i])
				return
			}

			ranked[i] = r.enrich(ctx, job, &apps[i])
		}(i)
	}

	wg.Wait()

	// Stable: equal and nil scores keep submission order.
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].FitScore, ranked[j].FitScore
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si > *sj
	})

	return ranked, nil
}

func (r *rankingAggregator) enrich(ctx context.Context, job *models.Job, app *models.Application) models.RankedApplication {
	summaryText := ""
	if app.Profile.InsightSummary != nil {
		summaryText = strings.TrimSpace(*app.Profile.InsightSummary)
	}

	if summaryText == "" {
		result, err := r.insight.GetOrCreateSummary(ctx, app.ProfileID, "")
		if err != nil {
			r.logger.Warn("candidate enrichment failed",
				zap.String("application_id", app.ID.String()),
				zap.String("profile_id", app.ProfileID.String()),
				zap.Error(err),
			)
			return failedEntry(app)
		}

		if !result.IsStructured() || strings.TrimSpace(result.Structured.Summary) == "" {
			// Raw fallback: nothing scoreable, but the application still lists.
			entry := failedEntry(app)
			entry.Status = models.ShortlistUnscored
			return entry
		}

		summaryText = result.Structured.Summary
	}

	fit, err := r.scorer.ScoreFit(ctx, job.Description, summaryText)
	if err != nil {
		r.logger.Warn("fit scoring failed",
			zap.String("application_id", app.ID.String()),
			zap.String("profile_id", app.ProfileID.String()),
			zap.Error(err),
		)
		entry := failedEntry(app)
		entry.Summary = summaryText
		return entry
	}

	entry := models.RankedApplication{
		ApplicationID: app.ID.String(),
		ProfileID:     app.ProfileID.String(),
		CandidateName: app.Profile.Name,
		Summary:       summaryText,
		Status:        models.ShortlistUnscored,
	}

	if fit.IsStructured() {
		score := fit.Assessment.FitScore
		entry.FitScore = &score
		entry.Explanation = fit.Assessment.Explanation
		entry.Status = models.ShortlistScored
	}

	return entry
}

func failedEntry(app *models.Application) models.RankedApplication {
	return models.RankedApplication{
		ApplicationID: app.ID.String(),
		ProfileID:     app.ProfileID.String(),
		CandidateName: app.Profile.Name,
		Status:        models.ShortlistFailed,
	}
}
