package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"hiring-agent/internal/mailbox"
	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
)

// IngestionService drains the recruiting mailbox: every unread
// message's attachments go through the intake pipeline, and a message
// is only marked read once at least one of its attachments was
// handled successfully. Messages whose attachments all fail stay
// unread for the next cycle.
type IngestionService interface {
	Ingest(ctx context.Context) (*models.IngestionResult, error)
}

type ingestionService struct {
	mailbox     mailbox.Mailbox
	intake      IntakeService
	candidates  repositories.CandidateRepository
	allowedExts []string
	logger      *zap.Logger
}

func NewIngestionService(
	mb mailbox.Mailbox,
	intake IntakeService,
	candidates repositories.CandidateRepository,
	allowedExts []string,
	logger *zap.Logger,
) IngestionService {
	return &ingestionService{
		mailbox:     mb,
		intake:      intake,
		candidates:  candidates,
		allowedExts: allowedExts,
		logger:      logger,
	}
}

func (s *ingestionService) Ingest(ctx context.Context) (*models.IngestionResult, error) {
	messages, err := s.mailbox.FetchUnread(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread messages: %w", err)
	}

	result := &models.IngestionResult{Errors: []string{}}
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.ProcessedMessages++

		successful := 0
		for _, att := range msg.Attachments {
			result.ProcessedAttachments++
			if !s.allowed(att.Filename) {
				continue
			}

			ok, err := s.processAttachment(ctx, msg, att, result)
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s (%s): %v", att.Filename, msg.ID, err))
				s.logger.Error("attachment processing failed",
					zap.String("message_id", msg.ID),
					zap.String("filename", att.Filename),
					zap.Error(err))
				continue
			}
			if ok {
				successful++
			}
		}

		if successful > 0 {
			if err := s.mailbox.MarkRead(ctx, msg.ID); err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("mark read %s: %v", msg.ID, err))
				s.logger.Warn("failed to mark message read",
					zap.String("message_id", msg.ID), zap.Error(err))
			}
		}
	}
	return result, nil
}

// processAttachment returns true when the attachment was fully
// handled, including the case where it was a known duplicate.
func (s *ingestionService) processAttachment(ctx context.Context, msg mailbox.Message, att mailbox.Attachment, result *models.IngestionResult) (bool, error) {
	attachmentID := fmt.Sprintf("%s:%s", msg.ID, att.ID)

	// Source-level dedup keeps re-ingestion of an already seen
	// attachment a no-op even if the message lost its read flag.
	exists, err := s.candidates.ExistsBySource(msg.ID, attachmentID)
	if err != nil {
		return false, err
	}
	if exists {
		result.SkippedCandidates++
		return true, nil
	}

	outcome, err := s.intake.CreateFromResume(ctx, IntakeRequest{
		Filename:         att.Filename,
		Content:          att.Content,
		Source:           models.SourceMailbox,
		SourceMessageID:  msg.ID,
		SourceAttachment: attachmentID,
	})
	if err != nil {
		return false, err
	}

	switch outcome.Status {
	case IntakeCreated:
		result.CreatedCandidates++
		result.ImportedCandidates = append(result.ImportedCandidates, outcome.Candidate.ID)
	case IntakeDuplicate:
		result.SkippedCandidates++
	case IntakeRejected:
		result.SkippedCandidates++
		s.logger.Info("attachment rejected",
			zap.String("filename", att.Filename),
			zap.String("reason", outcome.Reason))
	}
	return true, nil
}

func (s *ingestionService) allowed(filename string) bool {
	if filename == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
