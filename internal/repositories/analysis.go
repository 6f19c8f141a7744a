package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hiring-agent/internal/models"
)

type AnalysisRepository interface {
	// SaveRun appends a run to the history and upserts the candidate's
	// latest-state row in the same transaction, retrying transient
	// storage errors.
	SaveRun(run *models.CandidateAnalysisRun) error
	LatestForCandidate(candidateID uuid.UUID) (*models.CandidateAnalysis, error)
	// LatestRunsForJob returns each candidate's most recent run against
	// the given job.
	LatestRunsForJob(jobID uuid.UUID) ([]models.CandidateAnalysisRun, error)
	RunsForCandidate(candidateID uuid.UUID, limit int) ([]models.CandidateAnalysisRun, error)
}

type analysisRepository struct {
	db    *gorm.DB
	retry RetryPolicy
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db, retry: DefaultRetryPolicy()}
}

func (r *analysisRepository) SaveRun(run *models.CandidateAnalysisRun) error {
	err := r.retry.Do(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(run).Error; err != nil {
				return err
			}

			// Atomic upsert: two first-ever analyses of the same
			// candidate must not race a read-then-write into a unique
			// violation.
			latest := models.CandidateAnalysis{
				CandidateID:      run.CandidateID,
				JobDescriptionID: run.JobDescriptionID,
				AnalysisRecord:   run.AnalysisRecord,
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "candidate_id"}},
				UpdateAll: true,
			}).Create(&latest).Error
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

func (r *analysisRepository) LatestForCandidate(candidateID uuid.UUID) (*models.CandidateAnalysis, error) {
	var analysis models.CandidateAnalysis
	if err := r.db.Where("candidate_id = ?", candidateID).First(&analysis).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("analysis not found")
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) LatestRunsForJob(jobID uuid.UUID) ([]models.CandidateAnalysisRun, error) {
	var runs []models.CandidateAnalysisRun
	err := r.db.
		Where("job_description_id = ?", jobID).
		Order("created_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}

	// Keep only the newest run per candidate.
	seen := make(map[uuid.UUID]bool, len(runs))
	latest := make([]models.CandidateAnalysisRun, 0, len(runs))
	for _, run := range runs {
		if seen[run.CandidateID] {
			continue
		}
		seen[run.CandidateID] = true
		latest = append(latest, run)
	}
	return latest, nil
}

func (r *analysisRepository) RunsForCandidate(candidateID uuid.UUID, limit int) ([]models.CandidateAnalysisRun, error) {
	var runs []models.CandidateAnalysisRun
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate runs: %w", err)
	}
	return runs, nil
}
