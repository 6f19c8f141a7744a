package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-agent/internal/llm"
	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
)

// AnalyzerService runs the analysis pipeline for one candidate
// against one job, and builds the read models on top of the stored
// runs: rankings, reports and interview kits.
type AnalyzerService interface {
	Analyze(ctx context.Context, candidateID, jobID uuid.UUID) (*models.CandidateAnalysisRun, error)
	Rank(jobID uuid.UUID, limit int) ([]models.RankedCandidate, error)
	Report(jobID uuid.UUID) (*models.HiringReport, error)
	InterviewStrategy(candidateID uuid.UUID) (*models.InterviewStrategy, error)
}

type analyzerService struct {
	candidates repositories.CandidateRepository
	jobs       repositories.JobRepository
	analyses   repositories.AnalysisRepository
	extractor  ExtractorService
	scoring    *ScoringEngine
	client     llm.ChatClient
	logger     *zap.Logger
}

func NewAnalyzerService(
	candidates repositories.CandidateRepository,
	jobs repositories.JobRepository,
	analyses repositories.AnalysisRepository,
	extractor ExtractorService,
	scoring *ScoringEngine,
	client llm.ChatClient,
	logger *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		candidates: candidates,
		jobs:       jobs,
		analyses:   analyses,
		extractor:  extractor,
		scoring:    scoring,
		client:     client,
		logger:     logger,
	}
}

// Analyze always produces a stored run. When the model call fails the
// run carries zero scores and a reject decision, so the pipeline
// never wedges on a flaky backend and failed analyses are visible in
// the history.
func (s *analyzerService) Analyze(ctx context.Context, candidateID, jobID uuid.UUID) (*models.CandidateAnalysisRun, error) {
	candidate, err := s.candidates.FindByID(candidateID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		return nil, err
	}

	analysis, analysisErr := s.extractor.AnalyzeResume(ctx, candidate.ResumeText, job)
	if analysisErr != nil {
		s.logger.Warn("analysis fell back to zero-score record",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(analysisErr))
		analysis = DefaultAnalysis(analysisErr)
	}
	EnsureMinimumQuestions(analysis, job.Title, job.Domain)

	finalScore, decision := s.scoring.Score(analysis)
	if analysisErr != nil {
		// The failure cause must stay visible in the stored record.
		analysis.Recommendation = fmt.Sprintf("LLM analysis failed: %v\n\n%s",
			analysisErr, analysis.Recommendation)
	}

	run := &models.CandidateAnalysisRun{
		CandidateID:      candidateID,
		JobDescriptionID: jobID,
		AnalysisRecord:   buildRecord(analysis, finalScore, decision, s.client.Model()),
	}
	if err := s.analyses.SaveRun(run); err != nil {
		return nil, err
	}

	s.logger.Info("candidate analyzed",
		zap.String("candidate_id", candidateID.String()),
		zap.String("job_id", jobID.String()),
		zap.Float64("final_score", finalScore),
		zap.String("decision", string(decision)))
	return run, nil
}

func buildRecord(a *ResumeAnalysis, finalScore float64, decision Decision, model string) models.AnalysisRecord {
	return models.AnalysisRecord{
		Skills:          a.Skills,
		ExperienceYears: a.ExperienceYears,
		TechStack:       a.TechStack,
		DomainKnowledge: a.DomainKnowledge,
		Seniority:       a.Seniority,
		Strengths:       a.Strengths,
		Weaknesses:      a.Weaknesses,

		SkillMatchScore:        a.SkillMatchScore,
		ExperienceScore:        a.ExperienceScore,
		DomainScore:            a.DomainScore,
		ProjectComplexityScore: a.ProjectComplexityScore,
		SoftSkillsScore:        a.SoftSkillsScore,
		FinalScore:             finalScore,

		Decision:       string(decision),
		Recommendation: a.Recommendation,
		Risks:          a.Risks,
		RiskLevel:      a.RiskLevel,

		TechnicalQuestions:    a.TechnicalQuestions,
		SystemDesignQuestions: a.SystemDesignQuestions,
		BehavioralQuestions:   a.BehavioralQuestions,
		CustomQuestions:       a.CustomQuestions,
		InterviewFocusAreas:   a.InterviewFocusAreas,

		ModelUsed:         model,
		AnalysisTimestamp: time.Now().UTC(),
	}
}

func (s *analyzerService) Rank(jobID uuid.UUID, limit int) ([]models.RankedCandidate, error) {
	runs, err := s.analyses.LatestRunsForJob(jobID)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.RankedCandidate, 0, len(runs))
	for _, run := range runs {
		name := ""
		if candidate, err := s.candidates.FindByID(run.CandidateID); err == nil && candidate != nil {
			name = candidate.Name
		}
		ranked = append(ranked, models.RankedCandidate{
			CandidateID:    run.CandidateID,
			CandidateName:  name,
			FinalScore:     run.FinalScore,
			Decision:       run.Decision,
			RiskLevel:      run.RiskLevel,
			Recommendation: run.Recommendation,
		})
	}

	s.scoring.Rank(ranked)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *analyzerService) Report(jobID uuid.UUID) (*models.HiringReport, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		return nil, err
	}
	ranked, err := s.Rank(jobID, 0)
	if err != nil {
		return nil, err
	}

	report := &models.HiringReport{
		JobDescriptionID: jobID,
		JobTitle:         job.Title,
		StrongHires:      []models.RankedCandidate{},
		Borderline:       []models.RankedCandidate{},
		Rejected:         []models.RankedCandidate{},
	}

	var total float64
	for _, rc := range ranked {
		total += rc.FinalScore
		switch Decision(rc.Decision) {
		case DecisionStrongHire:
			report.StrongHires = append(report.StrongHires, rc)
		case DecisionBorderline:
			report.Borderline = append(report.Borderline, rc)
		default:
			report.Rejected = append(report.Rejected, rc)
		}
	}

	report.Summary = models.ReportSummary{
		TotalCandidates: len(ranked),
		StrongHires:     len(report.StrongHires),
		Borderline:      len(report.Borderline),
		Rejected:        len(report.Rejected),
	}
	if len(ranked) > 0 {
		report.Summary.AverageScore = round2(total / float64(len(ranked)))
	}
	return report, nil
}

func (s *analyzerService) InterviewStrategy(candidateID uuid.UUID) (*models.InterviewStrategy, error) {
	candidate, err := s.candidates.FindByID(candidateID)
	if err != nil {
		return nil, err
	}
	analysis, err := s.analyses.LatestForCandidate(candidateID)
	if err != nil {
		return nil, err
	}

	return &models.InterviewStrategy{
		CandidateID:           candidateID,
		CandidateName:         candidate.Name,
		Decision:              analysis.Decision,
		TechnicalQuestions:    analysis.TechnicalQuestions,
		SystemDesignQuestions: analysis.SystemDesignQuestions,
		BehavioralQuestions:   analysis.BehavioralQuestions,
		CustomQuestions:       analysis.CustomQuestions,
		FocusAreas:            analysis.InterviewFocusAreas,
	}, nil
}
