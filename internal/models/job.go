package models

import (
	"time"

	"github.com/google/uuid"
)

type JobDescription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	RequiredSkills []string  `gorm:"serializer:json" json:"required_skills"`
	Domain         string    `gorm:"type:text" json:"domain"`
	Seniority      string    `gorm:"type:text" json:"seniority"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
