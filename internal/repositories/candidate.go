package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiring-agent/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	FindAll() ([]models.Candidate, error)
	// FindDuplicate matches name case-insensitively, and email too when
	// one is given. Returns (nil, nil) when no duplicate exists.
	FindDuplicate(name, email string) (*models.Candidate, error)
	ExistsBySource(messageID, attachmentID string) (bool, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate not found")
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindAll() ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := r.db.Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) FindDuplicate(name, email string) (*models.Candidate, error) {
	query := r.db.Where("name ILIKE ?", name)
	if email != "" {
		query = query.Where("email ILIKE ?", email)
	}

	var candidate models.Candidate
	if err := query.First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check for duplicate candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) ExistsBySource(messageID, attachmentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Candidate{}).
		Where("source_message_id = ? AND source_attachment_id = ?", messageID, attachmentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check candidate source: %w", err)
	}
	return count > 0, nil
}
