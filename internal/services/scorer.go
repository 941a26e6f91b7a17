package services

import (
	"context"
)

// FitScorer computes a fit assessment for one candidate summary against one
// job description. A transport failure is an error; a shape failure is the
// raw variant of FitResult, and batch callers substitute a default instead of
// aborting.
type FitScorer interface {
	ScoreFit(ctx context.Context, jobDescription, candidateSummary string) (FitResult, error)
}

type fitScorer struct {
	generator InsightGenerator
}

func NewFitScorer(generator InsightGenerator) FitScorer {
	return &fitScorer{generator: generator}
}

// ScoreFit implements FitScorer.
func (s *fitScorer) ScoreFit(ctx context.Context, jobDescription, candidateSummary string) (FitResult, error) {
	raw, err := s.generator.AnalyzeFit(ctx, jobDescription, candidateSummary)
	if err != nil {
		return FitResult{}, err
	}

	return NormalizeFit(raw), nil
}
