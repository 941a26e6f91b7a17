package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile owns the uploaded resume document and both derived caches.
// ResumeFile is the opaque storage reference; the cache columns are cleared
// whenever the reference changes, never served across an upload.
type Profile struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name               string    `gorm:"type:text" json:"name"`
	Email              string    `gorm:"type:text" json:"email"`
	ResumeFile         string    `gorm:"type:text" json:"resume_file"`
	ResumeOriginalName string    `gorm:"type:text" json:"resume_original_name"`

	CachedText     *string `gorm:"type:text" json:"-"`
	InsightPayload *string `gorm:"type:text" json:"-"`
	InsightGoal    *string `gorm:"type:text" json:"-"`
	InsightSummary *string `gorm:"type:text" json:"insight_summary,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (p *Profile) TableName() string {
	return "profiles"
}

// HasResume reports whether a resume document reference is present.
func (p *Profile) HasResume() bool {
	return p.ResumeFile != ""
}
