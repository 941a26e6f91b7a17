package main

import (
	"context"
	"log"
	"strings"

	"hirelens/resume-intel/internal/config"
	"hirelens/resume-intel/internal/models"
	"hirelens/resume-intel/internal/services"
)

// Rebuilds the qdrant candidate index from every profile that already has
// cached resume text. Useful after changing the collection or losing the
// index volume; the index is derived data, so a full rebuild is always safe.
func main() {
	log.Println("Starting candidate reindex...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	index, err := services.NewCandidateIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}

	if err := index.InitCollection(); err != nil {
		log.Fatalf("Failed to initialize collection: %v", err)
	}

	var profiles []models.Profile
	if err := db.Where("cached_text IS NOT NULL").Find(&profiles).Error; err != nil {
		log.Fatalf("Failed to load profiles: %v", err)
	}

	log.Printf("Found %d profiles with cached resume text", len(profiles))

	successCount := 0
	failCount := 0

	for _, profile := range profiles {
		resumeText := strings.TrimSpace(*profile.CachedText)
		if resumeText == "" {
			continue
		}

		summaryText := ""
		if profile.InsightSummary != nil {
			summaryText = *profile.InsightSummary
		}

		if err := index.IndexCandidate(ctx, profile.ID, resumeText, summaryText); err != nil {
			log.Printf("Failed to index profile %s: %v", profile.ID, err)
			failCount++
			continue
		}

		successCount++
		if successCount%10 == 0 {
			log.Printf("Progress: %d/%d profiles indexed", successCount, len(profiles))
		}
	}

	log.Printf("Reindex complete: %d indexed, %d failed", successCount, failCount)
}
