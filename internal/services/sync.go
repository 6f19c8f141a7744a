package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"hiring-agent/internal/activitylog"
	"hiring-agent/internal/models"
	"hiring-agent/internal/repositories"
)

// SyncService ties the pipeline together: ingest the mailbox, then
// analyze every newly imported candidate against its best-linked job.
// A single mutex guarantees at most one sync runs at a time no matter
// how it was triggered.
type SyncService interface {
	Sync(ctx context.Context, trigger string) (*models.SyncResult, error)
	// Run blocks, firing a sync every interval until the context is
	// cancelled.
	Run(ctx context.Context)
}

type syncService struct {
	mu        sync.Mutex
	ingestion IngestionService
	analyzer  AnalyzerService
	links     repositories.LinkRepository
	activity  *activitylog.Log
	interval  time.Duration
	logger    *zap.Logger
}

func NewSyncService(
	ingestion IngestionService,
	analyzer AnalyzerService,
	links repositories.LinkRepository,
	activity *activitylog.Log,
	interval time.Duration,
	logger *zap.Logger,
) SyncService {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &syncService{
		ingestion: ingestion,
		analyzer:  analyzer,
		links:     links,
		activity:  activity,
		interval:  interval,
		logger:    logger,
	}
}

func (s *syncService) Sync(ctx context.Context, trigger string) (*models.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activity.Add(activitylog.LevelInfo, "sync_started",
		fmt.Sprintf("Sync started (%s)", trigger), nil)

	ingestionResult, err := s.ingestion.Ingest(ctx)
	if err != nil {
		s.activity.Add(activitylog.LevelError, "sync_failed",
			fmt.Sprintf("Sync aborted: %v", err), nil)
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	// Ingestion already collected these in the cycle result; the
	// activity feed gets one entry per error as well.
	for _, msg := range ingestionResult.Errors {
		s.activity.Add(activitylog.LevelError, "ingestion_error", msg, nil)
	}

	result := &models.SyncResult{Trigger: trigger, Ingestion: *ingestionResult}
	for _, candidateID := range ingestionResult.ImportedCandidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		link, err := s.links.BestForCandidate(candidateID)
		if err != nil {
			result.Failed++
			s.activity.Add(activitylog.LevelError, "analysis_failed",
				fmt.Sprintf("Candidate %s: %v", candidateID, err),
				map[string]any{"candidate_id": candidateID.String()})
			continue
		}
		if link == nil {
			result.Unmatched++
			s.activity.Add(activitylog.LevelWarning, "candidate_no_jd_match",
				fmt.Sprintf("Candidate %s has no matching job description, skipped", candidateID),
				map[string]any{"candidate_id": candidateID.String()})
			continue
		}

		run, err := s.analyzer.Analyze(ctx, candidateID, link.JobDescriptionID)
		if err != nil {
			result.Failed++
			s.activity.Add(activitylog.LevelError, "analysis_failed",
				fmt.Sprintf("Candidate %s: %v", candidateID, err),
				map[string]any{
					"candidate_id": candidateID.String(),
					"job_id":       link.JobDescriptionID.String(),
				})
			continue
		}

		result.Analyzed++
		s.activity.Add(activitylog.LevelInfo, "candidate_analyzed",
			fmt.Sprintf("Candidate %s analyzed: %s (%.2f)", candidateID, run.Decision, run.FinalScore),
			map[string]any{
				"candidate_id": candidateID.String(),
				"job_id":       link.JobDescriptionID.String(),
				"decision":     run.Decision,
				"final_score":  run.FinalScore,
			})
	}

	s.activity.Add(activitylog.LevelInfo, "sync_completed",
		fmt.Sprintf("Sync completed: %d created, %d skipped, %d analyzed, %d unmatched, %d failed",
			ingestionResult.CreatedCandidates, ingestionResult.SkippedCandidates,
			result.Analyzed, result.Unmatched, result.Failed),
		map[string]any{
			"processed_messages":    ingestionResult.ProcessedMessages,
			"processed_attachments": ingestionResult.ProcessedAttachments,
			"created_candidates":    ingestionResult.CreatedCandidates,
			"skipped_candidates":    ingestionResult.SkippedCandidates,
			"analyzed":              result.Analyzed,
			"unmatched":             result.Unmatched,
			"failed":                result.Failed,
			"errors":                len(ingestionResult.Errors),
		})
	return result, nil
}

func (s *syncService) Run(ctx context.Context) {
	s.logger.Info("sync scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx, "scheduled"); err != nil {
				s.logger.Error("scheduled sync failed", zap.Error(err))
			}
		}
	}
}
