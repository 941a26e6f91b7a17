package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirelens/resume-intel/internal/models"
)

type ProfileRepository interface {
	FindByID(id uuid.UUID) (*models.Profile, error)
	ReplaceResume(id uuid.UUID, filename, originalName string) error
	ClearResume(id uuid.UUID) error
	SaveCachedText(id uuid.UUID, text string) error
	SaveInsight(id uuid.UUID, payload, goal, summary string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID implements ProfileRepository.
func (r *profileRepository) FindByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

// ReplaceResume swaps the resume reference and clears every derived cache in
// the same UPDATE. A new upload must never leave stale extracted text or a
// stale summary behind.
func (r *profileRepository) ReplaceResume(id uuid.UUID, filename, originalName string) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_file":          filename,
			"resume_original_name": originalName,
			"cached_text":          nil,
			"insight_payload":      nil,
			"insight_goal":         nil,
			"insight_summary":      nil,
			"updated_at":           time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to replace resume: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}

// ClearResume implements ProfileRepository.
func (r *profileRepository) ClearResume(id uuid.UUID) error {
	return r.ReplaceResume(id, "", "")
}

// SaveCachedText implements ProfileRepository.
func (r *profileRepository) SaveCachedText(id uuid.UUID, text string) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cached_text": text,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save cached text: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}

// SaveInsight persists the cleaned generator payload together with the goal it
// was produced for and the summary text used by ranking. Single UPDATE so the
// write is either fully applied or absent.
func (r *profileRepository) SaveInsight(id uuid.UUID, payload, goal, summary string) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"insight_payload": payload,
			"insight_goal":    goal,
			"insight_summary": summary,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save insight: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}

	return nil
}
