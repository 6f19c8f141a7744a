package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hiring-agent/internal/models"
)

type LinkRepository interface {
	Create(link *models.CandidateJobLink) error
	CreateAll(links []models.CandidateJobLink) error
	FindByCandidate(candidateID uuid.UUID) ([]models.CandidateJobLink, error)
	// BestForCandidate returns the highest-confidence link, ties broken
	// by id for a stable choice. Returns (nil, nil) when unlinked.
	BestForCandidate(candidateID uuid.UUID) (*models.CandidateJobLink, error)
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(link *models.CandidateJobLink) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_description_id"}},
		DoNothing: true,
	}).Create(link).Error
	if err != nil {
		return fmt.Errorf("failed to create candidate job link: %w", err)
	}
	return nil
}

func (r *linkRepository) CreateAll(links []models.CandidateJobLink) error {
	if len(links) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_description_id"}},
		DoNothing: true,
	}).Create(&links).Error
	if err != nil {
		return fmt.Errorf("failed to create candidate job links: %w", err)
	}
	return nil
}

func (r *linkRepository) FindByCandidate(candidateID uuid.UUID) ([]models.CandidateJobLink, error) {
	var links []models.CandidateJobLink
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("confidence DESC, id ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate job links: %w", err)
	}
	return links, nil
}

func (r *linkRepository) BestForCandidate(candidateID uuid.UUID) (*models.CandidateJobLink, error) {
	var link models.CandidateJobLink
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("confidence DESC, id ASC").
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find best link: %w", err)
	}
	return &link, nil
}
