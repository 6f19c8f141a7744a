package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRecord holds the full output of one resume analysis: the
// extracted attributes, the per-dimension scores, and the decision.
// It is embedded both in the append-only run history and in the
// latest-state row kept per candidate.
type AnalysisRecord struct {
	Skills          []string `gorm:"serializer:json" json:"skills"`
	ExperienceYears float64  `gorm:"default:0" json:"experience_years"`
	TechStack       []string `gorm:"serializer:json" json:"tech_stack"`
	DomainKnowledge []string `gorm:"serializer:json" json:"domain_knowledge"`
	Seniority       string   `gorm:"type:text" json:"seniority"`
	Strengths       []string `gorm:"serializer:json" json:"strengths"`
	Weaknesses      []string `gorm:"serializer:json" json:"weaknesses"`

	SkillMatchScore        float64 `gorm:"default:0" json:"skill_match_score"`
	ExperienceScore        float64 `gorm:"default:0" json:"experience_score"`
	DomainScore            float64 `gorm:"default:0" json:"domain_score"`
	ProjectComplexityScore float64 `gorm:"default:0" json:"project_complexity_score"`
	SoftSkillsScore        float64 `gorm:"default:0" json:"soft_skills_score"`
	FinalScore             float64 `gorm:"default:0" json:"final_score"`

	Decision       string   `gorm:"type:text" json:"decision"`
	Recommendation string   `gorm:"type:text" json:"recommendation"`
	Risks          []string `gorm:"serializer:json" json:"risks"`
	RiskLevel      string   `gorm:"type:text;default:'low'" json:"risk_level"`

	TechnicalQuestions    []string `gorm:"serializer:json" json:"technical_questions"`
	SystemDesignQuestions []string `gorm:"serializer:json" json:"system_design_questions"`
	BehavioralQuestions   []string `gorm:"serializer:json" json:"behavioral_questions"`
	CustomQuestions       []string `gorm:"serializer:json" json:"custom_questions"`
	InterviewFocusAreas   []string `gorm:"serializer:json" json:"interview_focus_areas"`

	ModelUsed         string    `gorm:"type:text" json:"model_used"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

// CandidateAnalysisRun is one row of the append-only analysis history.
type CandidateAnalysisRun struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID      uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobDescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"job_description_id"`
	AnalysisRecord
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Candidate      Candidate      `gorm:"foreignKey:CandidateID" json:"-"`
	JobDescription JobDescription `gorm:"foreignKey:JobDescriptionID" json:"-"`
}

func (CandidateAnalysisRun) TableName() string {
	return "candidate_analysis_runs"
}

// CandidateAnalysis is the single latest-state row per candidate,
// upserted in the same transaction as the run it mirrors.
type CandidateAnalysis struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	JobDescriptionID uuid.UUID `gorm:"type:uuid;not null" json:"job_description_id"`
	AnalysisRecord
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"-"`
}

func (CandidateAnalysis) TableName() string {
	return "candidate_analyses"
}
