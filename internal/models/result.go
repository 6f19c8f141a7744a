package models

import "github.com/google/uuid"

// IngestionResult summarizes one mailbox ingestion cycle.
type IngestionResult struct {
	ProcessedMessages    int         `json:"processed_messages"`
	ProcessedAttachments int         `json:"processed_attachments"`
	CreatedCandidates    int         `json:"created_candidates"`
	SkippedCandidates    int         `json:"skipped_candidates"`
	Errors               []string    `json:"errors"`
	ImportedCandidates   []uuid.UUID `json:"imported_candidates"`
}

// SyncResult summarizes one full sync cycle: the ingestion outcome
// plus what happened to each newly imported candidate.
type SyncResult struct {
	Trigger   string          `json:"trigger"`
	Ingestion IngestionResult `json:"ingestion"`
	Analyzed  int             `json:"analyzed"`
	Unmatched int             `json:"unmatched"`
	Failed    int             `json:"failed"`
}

// RankedCandidate is one row of a per-job leaderboard.
type RankedCandidate struct {
	Rank           int       `json:"rank"`
	CandidateID    uuid.UUID `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	FinalScore     float64   `json:"final_score"`
	Decision       string    `json:"decision"`
	RiskLevel      string    `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}

// HiringReport groups a job's latest analyses by decision.
type HiringReport struct {
	JobDescriptionID uuid.UUID         `json:"job_description_id"`
	JobTitle         string            `json:"job_title"`
	Summary          ReportSummary     `json:"summary"`
	StrongHires      []RankedCandidate `json:"strong_hires"`
	Borderline       []RankedCandidate `json:"borderline"`
	Rejected         []RankedCandidate `json:"rejected"`
}

type ReportSummary struct {
	TotalCandidates int     `json:"total_candidates"`
	StrongHires     int     `json:"strong_hires"`
	Borderline      int     `json:"borderline"`
	Rejected        int     `json:"rejected"`
	AverageScore    float64 `json:"average_score"`
}

// InterviewStrategy is the interview kit persisted with an analysis.
type InterviewStrategy struct {
	CandidateID           uuid.UUID `json:"candidate_id"`
	CandidateName         string    `json:"candidate_name"`
	Decision              string    `json:"decision"`
	TechnicalQuestions    []string  `json:"technical_questions"`
	SystemDesignQuestions []string  `json:"system_design_questions"`
	BehavioralQuestions   []string  `json:"behavioral_questions"`
	CustomQuestions       []string  `json:"custom_questions"`
	FocusAreas            []string  `json:"focus_areas"`
}

type CreateJobRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Domain         string   `json:"domain"`
	Seniority      string   `json:"seniority"`
}

type AnalyzeRequest struct {
	JobDescriptionID string `json:"job_description_id" validate:"required,uuid"`
}

type UploadResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Status   string `json:"status"`
	FilePath string `json:"file_path,omitempty"`
}
