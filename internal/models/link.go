package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkedBy provenance values for candidate-to-job links.
const (
	LinkedByAI     = "ai"
	LinkedByManual = "manual"
)

// CandidateJobLink associates a candidate with a job description.
// Confidence carries the lexical match score the link was created with;
// manual links use 0.
type CandidateJobLink struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_job" json:"candidate_id"`
	JobDescriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_candidate_job" json:"job_description_id"`
	Confidence       float64   `gorm:"not null;default:0" json:"confidence"`
	LinkedBy         string    `gorm:"type:text;not null;default:'ai'" json:"linked_by"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Candidate      Candidate      `gorm:"foreignKey:CandidateID" json:"-"`
	JobDescription JobDescription `gorm:"foreignKey:JobDescriptionID" json:"-"`
}

func (CandidateJobLink) TableName() string {
	return "candidate_job_links"
}
