package models

import (
	"time"

	"github.com/google/uuid"
)

// CandidateSource records how a candidate entered the system.
const (
	SourceMailbox = "mailbox"
	SourceUpload  = "upload"
)

type Candidate struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name               string    `gorm:"type:text;not null" json:"name"`
	Email              *string   `gorm:"type:text" json:"email,omitempty"`
	Phone              *string   `gorm:"type:text" json:"phone,omitempty"`
	ResumeText         string    `gorm:"type:text" json:"-"`
	ResumeFilePath     *string   `gorm:"type:text" json:"resume_file_path,omitempty"`
	Source             string    `gorm:"type:text;not null;default:'upload'" json:"source"`
	SourceMessageID    *string   `gorm:"type:text;uniqueIndex:idx_candidates_source" json:"source_message_id,omitempty"`
	SourceAttachmentID *string   `gorm:"type:text;uniqueIndex:idx_candidates_source" json:"source_attachment_id,omitempty"`
	CreatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) EmailOrEmpty() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}
