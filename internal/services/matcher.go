package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-agent/internal/config"
	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
)

// MatcherService links candidates to job descriptions: exact
// duplicate detection on identity, and lexical auto-linking of a
// resume against every open job.
type MatcherService interface {
	// FindDuplicate returns an existing candidate with the same name
	// (and email, when known), or nil.
	FindDuplicate(name, email string) (*models.Candidate, error)
	// MatchScore grades one resume against one job: two points per
	// required skill found in the text, one for the title, one for the
	// domain.
	MatchScore(resumeText string, job *models.JobDescription) float64
	// AutoLink scores the resume against all jobs and links the
	// candidate to the best ones: every job within the tie window of
	// the top score, capped, zero-score jobs never linked.
	AutoLink(candidateID uuid.UUID, resumeText string) ([]models.CandidateJobLink, error)
	// Link creates a manual link to one specific job.
	Link(candidateID, jobID uuid.UUID) (*models.CandidateJobLink, error)
}

type matcherService struct {
	candidates repositories.CandidateRepository
	jobs       repositories.JobRepository
	links      repositories.LinkRepository
	cfg        config.AutoLinkConfig
	logger     *zap.Logger
}

func NewMatcherService(
	candidates repositories.CandidateRepository,
	jobs repositories.JobRepository,
	links repositories.LinkRepository,
	cfg config.AutoLinkConfig,
	logger *zap.Logger,
) MatcherService {
	return &matcherService{
		candidates: candidates,
		jobs:       jobs,
		links:      links,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *matcherService) FindDuplicate(name, email string) (*models.Candidate, error) {
	return s.candidates.FindDuplicate(name, email)
}

func (s *matcherService) MatchScore(resumeText string, job *models.JobDescription) float64 {
	text := strings.ToLower(resumeText)
	var score float64

	for _, skill := range job.RequiredSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" && strings.Contains(text, skill) {
			score += 2
		}
	}
	if title := strings.ToLower(strings.TrimSpace(job.Title)); title != "" && strings.Contains(text, title) {
		score++
	}
	if domain := strings.ToLower(strings.TrimSpace(job.Domain)); domain != "" && strings.Contains(text, domain) {
		score++
	}
	return score
}

func (s *matcherService) Link(candidateID, jobID uuid.UUID) (*models.CandidateJobLink, error) {
	link := &models.CandidateJobLink{
		CandidateID:      candidateID,
		JobDescriptionID: jobID,
		LinkedBy:         models.LinkedByManual,
	}
	if err := s.links.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *matcherService) AutoLink(candidateID uuid.UUID, resumeText string) ([]models.CandidateJobLink, error) {
	jobs, err := s.jobs.FindAll()
	if err != nil {
		return nil, fmt.Errorf("auto link failed: %w", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	type scoredJob struct {
		jobID uuid.UUID
		score float64
	}
	scored := make([]scoredJob, 0, len(jobs))
	for _, job := range jobs {
		if score := s.MatchScore(resumeText, &job); score > 0 {
			scored = append(scored, scoredJob{jobID: job.ID, score: score})
		}
	}
	if len(scored) == 0 {
		return nil, nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	best := scored[0].score
	links := make([]models.CandidateJobLink, 0, s.cfg.MaxLinks)
	for _, sj := range scored {
		if len(links) >= s.cfg.MaxLinks {
			break
		}
		if sj.score < best-s.cfg.TieWindow {
			break
		}
		links = append(links, models.CandidateJobLink{
			CandidateID:      candidateID,
			JobDescriptionID: sj.jobID,
			Confidence:       sj.score,
			LinkedBy:         models.LinkedByAI,
		})
	}

	if err := s.links.CreateAll(links); err != nil {
		return nil, fmt.Errorf("auto link failed: %w", err)
	}

	s.logger.Info("auto-linked candidate",
		zap.String("candidate_id", candidateID.String()),
		zap.Int("links", len(links)),
		zap.Float64("best_score", best))
	return links, nil
}
