package services

import (
	"fmt"
	"strings"

	"hiring-agent/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const analysisSystemPrompt = `You are an expert technical recruiter. You analyze resumes against job descriptions and return ONLY valid JSON, with no commentary before or after it.`

// BuildAnalysisPrompt creates the full resume analysis prompt: the
// extracted attributes, per-dimension scores, risks and the interview
// question kit, all in one response.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText string, job *models.JobDescription) string {
	return fmt.Sprintf(`Analyze this candidate's resume for the following position.

JOB TITLE: %s
DOMAIN: %s
REQUIRED SKILLS: %s

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Score each dimension from 0 to 100:
1. skill_match_score - overlap between the candidate's skills and the required skills
2. experience_score - years and depth of relevant experience
3. domain_score - familiarity with the %s domain
4. project_complexity_score - scale and difficulty of past projects
5. soft_skills_score - communication, leadership, teamwork signals

Also identify hiring risks (employment gaps, job hopping, skill claims without evidence) and rate the overall risk_level as "low", "medium" or "high".

Prepare interview questions tailored to this candidate: at least 5 per category.

Return your response in the following JSON format:
{
  "skills": ["<skill>", ...],
  "experience_years": <number>,
  "tech_stack": ["<technology>", ...],
  "domain_knowledge": ["<domain>", ...],
  "seniority": "<junior|mid|senior|lead>",
  "strengths": ["<strength>", ...],
  "weaknesses": ["<weakness>", ...],
  "skill_match_score": <0-100>,
  "experience_score": <0-100>,
  "domain_score": <0-100>,
  "project_complexity_score": <0-100>,
  "soft_skills_score": <0-100>,
  "risks": ["<risk>", ...],
  "risk_level": "<low|medium|high>",
  "technical_questions": ["<question>", ...],
  "system_design_questions": ["<question>", ...],
  "behavioral_questions": ["<question>", ...],
  "custom_questions": ["<question>", ...],
  "interview_focus_areas": ["<area>", ...]
}

Be objective. Justify scores by what the resume actually shows, not what it claims.`,
		job.Title,
		job.Domain,
		strings.Join(job.RequiredSkills, ", "),
		job.Description,
		resumeText,
		job.Domain)
}

const classificationSystemPrompt = `You are a resume classifier. Return ONLY valid JSON.`

// BuildClassificationPrompt creates the lightweight prompt used when a
// resume arrives without a target job: who is this, and roughly what
// do they do.
func (pb *PromptBuilder) BuildClassificationPrompt(resumeText string) string {
	return fmt.Sprintf(`Classify this resume.

RESUME:
%s

Return your response in the following JSON format:
{
  "candidate_name": "<full name>",
  "candidate_email": "<email or empty string>",
  "tech_stack": ["<technology>", ...],
  "job_category": "<backend|frontend|fullstack|mobile|devops|data|qa|other>",
  "seniority": "<junior|mid|senior|lead>"
}`,
		resumeText)
}
