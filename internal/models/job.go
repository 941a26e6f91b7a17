package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"type:text" json:"title"`
	Company     string    `gorm:"type:text" json:"company"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID     uuid.UUID         `gorm:"type:uuid;not null" json:"job_id"`
	ProfileID uuid.UUID         `gorm:"type:uuid;not null" json:"profile_id"`
	Status    ApplicationStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Job     Job     `gorm:"foreignKey:JobID" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}
