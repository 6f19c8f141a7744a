package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hiring-agent/internal/llm"
	"hiring-agent/internal/logger"
	"hiring-agent/internal/models"
)

// StringList decodes leniently: null or a non-array value becomes an
// empty list, scalar array items are stringified. Models drift on
// list-valued fields constantly and a single bad field must not sink
// the whole analysis.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items, ok := raw.([]any)
	if !ok {
		*s = []string{}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case float64, bool:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	*s = out
	return nil
}

// ResumeAnalysis is the model's full answer for one resume against
// one job description.
type ResumeAnalysis struct {
	Skills          StringList `json:"skills"`
	ExperienceYears float64    `json:"experience_years"`
	TechStack       StringList `json:"tech_stack"`
	DomainKnowledge StringList `json:"domain_knowledge"`
	Seniority       string     `json:"seniority"`
	Strengths       StringList `json:"strengths"`
	Weaknesses      StringList `json:"weaknesses"`

	SkillMatchScore        float64 `json:"skill_match_score"`
	ExperienceScore        float64 `json:"experience_score"`
	DomainScore            float64 `json:"domain_score"`
	ProjectComplexityScore float64 `json:"project_complexity_score"`
	SoftSkillsScore        float64 `json:"soft_skills_score"`

	Risks     StringList `json:"risks"`
	RiskLevel string     `json:"risk_level"`

	TechnicalQuestions    StringList `json:"technical_questions"`
	SystemDesignQuestions StringList `json:"system_design_questions"`
	BehavioralQuestions   StringList `json:"behavioral_questions"`
	CustomQuestions       StringList `json:"custom_questions"`
	InterviewFocusAreas   StringList `json:"interview_focus_areas"`

	Recommendation string `json:"recommendation"`
}

// ResumeClassification is the lightweight answer used when no target
// job is known yet.
type ResumeClassification struct {
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	TechStack      StringList `json:"tech_stack"`
	JobCategory    string     `json:"job_category"`
	Seniority      string     `json:"seniority"`
}

type ExtractorService interface {
	AnalyzeResume(ctx context.Context, resumeText string, job *models.JobDescription) (*ResumeAnalysis, error)
	ClassifyResume(ctx context.Context, resumeText string) (*ResumeClassification, error)
}

type extractorService struct {
	client      llm.ChatClient
	prompts     *PromptBuilder
	temperature float64
	logger      *zap.Logger
}

func NewExtractorService(client llm.ChatClient, temperature float64, log *zap.Logger) ExtractorService {
	return &extractorService{
		client:      client,
		prompts:     NewPromptBuilder(),
		temperature: temperature,
		logger:      log,
	}
}

func (s *extractorService) AnalyzeResume(ctx context.Context, resumeText string, job *models.JobDescription) (*ResumeAnalysis, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: analysisSystemPrompt},
		{Role: llm.RoleUser, Content: s.prompts.BuildAnalysisPrompt(resumeText, job)},
	}

	response, err := s.client.Complete(ctx, messages, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}

	var analysis ResumeAnalysis
	if err := llm.Unmarshal(response, &analysis); err != nil {
		s.logger.Warn("unparseable analysis response",
			zap.String("response", logger.Truncate(response, 500)))
		return nil, fmt.Errorf("resume analysis failed: %w", err)
	}

	analysis.normalize()
	return &analysis, nil
}

func (s *extractorService) ClassifyResume(ctx context.Context, resumeText string) (*ResumeClassification, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: classificationSystemPrompt},
		{Role: llm.RoleUser, Content: s.prompts.BuildClassificationPrompt(resumeText)},
	}

	response, err := s.client.Complete(ctx, messages, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("resume classification failed: %w", err)
	}

	var classification ResumeClassification
	if err := llm.Unmarshal(response, &classification); err != nil {
		return nil, fmt.Errorf("resume classification failed: %w", err)
	}
	if classification.TechStack == nil {
		classification.TechStack = StringList{}
	}
	return &classification, nil
}

// normalize clamps scores into [0, 100] and replaces nil lists with
// empty ones so downstream code never branches on nil.
func (a *ResumeAnalysis) normalize() {
	clamp := func(v *float64) {
		if *v < 0 {
			*v = 0
		}
		if *v > 100 {
			*v = 100
		}
	}
	clamp(&a.SkillMatchScore)
	clamp(&a.ExperienceScore)
	clamp(&a.DomainScore)
	clamp(&a.ProjectComplexityScore)
	clamp(&a.SoftSkillsScore)
	if a.ExperienceYears < 0 {
		a.ExperienceYears = 0
	}

	for _, list := range []*StringList{
		&a.Skills, &a.TechStack, &a.DomainKnowledge, &a.Strengths, &a.Weaknesses,
		&a.Risks, &a.TechnicalQuestions, &a.SystemDesignQuestions,
		&a.BehavioralQuestions, &a.CustomQuestions, &a.InterviewFocusAreas,
	} {
		if *list == nil {
			*list = StringList{}
		}
	}

	switch strings.ToLower(a.RiskLevel) {
	case "medium":
		a.RiskLevel = string(RiskMedium)
	case "high":
		a.RiskLevel = string(RiskHigh)
	default:
		a.RiskLevel = string(RiskLow)
	}
}

// DefaultAnalysis is the zero-scored record stored when the model
// call or its decoding failed. Scores of zero push the decision to
// reject rather than leaving the candidate unscored.
func DefaultAnalysis(cause error) *ResumeAnalysis {
	a := &ResumeAnalysis{
		Recommendation: fmt.Sprintf("LLM analysis failed: %v", cause),
	}
	a.normalize()
	return a
}
