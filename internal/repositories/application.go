package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirelens/resume-intel/internal/models"
)

type JobRepository interface {
	FindByID(id uuid.UUID) (*models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find job: %w", err)
	}

	return &job, nil
}

type ApplicationRepository interface {
	FindByJobID(jobID uuid.UUID) ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByJobID returns the job's applications in submission order with the
// candidate profile preloaded. Submission order is the ranking tie-break.
func (r *applicationRepository) FindByJobID(jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Preload("Profile").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find applications: %w", err)
	}

	return apps, nil
}
