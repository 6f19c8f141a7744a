package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
)

type IntakeStatus string

const (
	IntakeCreated   IntakeStatus = "created"
	IntakeDuplicate IntakeStatus = "duplicate"
	IntakeRejected  IntakeStatus = "rejected"
)

// IntakeOutcome is a tagged result: a duplicate or a rejected
// attachment is an expected outcome, not an error.
type IntakeOutcome struct {
	Status    IntakeStatus
	Candidate *models.Candidate
	Links     []models.CandidateJobLink
	Reason    string
}

// IntakeRequest carries one resume into the pipeline, from mail
// ingestion or a manual upload.
type IntakeRequest struct {
	Filename string
	Content  []byte
	// Name and Email override the extracted identity when the caller
	// already knows who this is.
	Name  string
	Email string
	// JobDescriptionID pins the candidate to one job and skips
	// auto-linking.
	JobDescriptionID *uuid.UUID
	Source           string
	SourceMessageID  string
	SourceAttachment string
}

// IntakeService runs the full candidate creation pipeline: text
// extraction, identity resolution, resume gate, duplicate check,
// file storage, record creation and job linking.
type IntakeService interface {
	CreateFromResume(ctx context.Context, req IntakeRequest) (*IntakeOutcome, error)
}

type intakeService struct {
	parser    DocumentParser
	extractor ExtractorService
	matcher   MatcherService
	repo      repositories.CandidateRepository
	storage   StorageService
	logger    *zap.Logger
}

func NewIntakeService(
	parser DocumentParser,
	extractor ExtractorService,
	matcher MatcherService,
	repo repositories.CandidateRepository,
	storage StorageService,
	logger *zap.Logger,
) IntakeService {
	return &intakeService{
		parser:    parser,
		extractor: extractor,
		matcher:   matcher,
		repo:      repo,
		storage:   storage,
		logger:    logger,
	}
}

func (s *intakeService) CreateFromResume(ctx context.Context, req IntakeRequest) (*IntakeOutcome, error) {
	text, err := s.parser.ExtractText(req.Filename, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", req.Filename, err)
	}

	if !IsLikelyResume(text) {
		return &IntakeOutcome{
			Status: IntakeRejected,
			Reason: fmt.Sprintf("%s does not look like a resume", req.Filename),
		}, nil
	}

	name, email, phone := s.resolveIdentity(ctx, req, text)

	if existing, err := s.matcher.FindDuplicate(name, email); err != nil {
		return nil, err
	} else if existing != nil {
		s.logger.Info("duplicate candidate skipped",
			zap.String("name", name),
			zap.String("existing_id", existing.ID.String()))
		return &IntakeOutcome{Status: IntakeDuplicate, Candidate: existing}, nil
	}

	candidate := &models.Candidate{
		Name:       name,
		ResumeText: text,
		Source:     req.Source,
	}
	if email != "" {
		candidate.Email = &email
	}
	if phone != "" {
		candidate.Phone = &phone
	}
	if req.SourceMessageID != "" {
		candidate.SourceMessageID = &req.SourceMessageID
		candidate.SourceAttachmentID = &req.SourceAttachment
	}

	// Keep the original bytes on disk; analysis works off the text but
	// recruiters want the document.
	if path, err := s.storage.SaveResume(name, req.Filename, req.Content); err != nil {
		s.logger.Warn("failed to store resume file",
			zap.String("filename", req.Filename), zap.Error(err))
	} else {
		candidate.ResumeFilePath = &path
	}

	if err := s.repo.Create(candidate); err != nil {
		return nil, err
	}

	outcome := &IntakeOutcome{Status: IntakeCreated, Candidate: candidate}
	if req.JobDescriptionID != nil {
		link, err := s.matcher.Link(candidate.ID, *req.JobDescriptionID)
		if err != nil {
			return nil, err
		}
		outcome.Links = []models.CandidateJobLink{*link}
	} else {
		links, err := s.matcher.AutoLink(candidate.ID, text)
		if err != nil {
			// The candidate exists; a linking failure should not undo
			// the import.
			s.logger.Warn("auto link failed",
				zap.String("candidate_id", candidate.ID.String()), zap.Error(err))
		}
		outcome.Links = links
	}

	s.logger.Info("candidate created",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("name", name),
		zap.Int("links", len(outcome.Links)))
	return outcome, nil
}

// resolveIdentity prefers caller-supplied identity, then heuristics
// over the text, then the classifier model, then the filename.
func (s *intakeService) resolveIdentity(ctx context.Context, req IntakeRequest, text string) (name, email, phone string) {
	name = req.Name
	email = req.Email
	phone = ExtractPhone(text)

	if email == "" {
		email = ExtractEmail(text)
	}
	if name == "" {
		name = ExtractName(text)
	}
	if name == "" {
		if classification, err := s.extractor.ClassifyResume(ctx, text); err == nil &&
			IsValidName(NormalizeName(classification.CandidateName)) {
			name = NormalizeName(classification.CandidateName)
			if email == "" {
				email = classification.CandidateEmail
			}
		}
	}
	if name == "" {
		name = NameFromFilename(req.Filename)
	}
	if name == "" {
		name = "Candidate"
	}
	return name, email, phone
}
