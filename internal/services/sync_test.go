package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-agent/internal/activitylog"
	"hiring-agent/internal/models"
)

type fakeIngestion struct {
	result  *models.IngestionResult
	err     error
	active  atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
}

func (f *fakeIngestion) Ingest(ctx context.Context) (*models.IngestionResult, error) {
	if f.active.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.active.Add(-1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &models.IngestionResult{}, nil
}

type fakeAnalyzer struct {
	failFor map[uuid.UUID]error
	runs    []uuid.UUID
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, candidateID, jobID uuid.UUID) (*models.CandidateAnalysisRun, error) {
	if err, ok := f.failFor[candidateID]; ok {
		return nil, err
	}
	f.runs = append(f.runs, candidateID)
	return &models.CandidateAnalysisRun{
		CandidateID:      candidateID,
		JobDescriptionID: jobID,
		AnalysisRecord:   models.AnalysisRecord{FinalScore: 72.5, Decision: "borderline"},
	}, nil
}

func (f *fakeAnalyzer) Rank(jobID uuid.UUID, limit int) ([]models.RankedCandidate, error) {
	return nil, nil
}
func (f *fakeAnalyzer) Report(jobID uuid.UUID) (*models.HiringReport, error) { return nil, nil }
func (f *fakeAnalyzer) InterviewStrategy(candidateID uuid.UUID) (*models.InterviewStrategy, error) {
	return nil, nil
}

func hasAction(entries []activitylog.Entry, action string) bool {
	for _, e := range entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

func TestSyncAnalyzesLinkedCandidates(t *testing.T) {
	linked := uuid.New()
	unmatched := uuid.New()
	failing := uuid.New()
	jobID := uuid.New()

	links := &stubLinkRepo{links: []models.CandidateJobLink{
		{CandidateID: linked, JobDescriptionID: jobID, Confidence: 5},
		{CandidateID: failing, JobDescriptionID: jobID, Confidence: 4},
	}}
	ingestion := &fakeIngestion{result: &models.IngestionResult{
		CreatedCandidates:  3,
		ImportedCandidates: []uuid.UUID{linked, unmatched, failing},
	}}
	analyzer := &fakeAnalyzer{failFor: map[uuid.UUID]error{failing: errors.New("storage busy")}}
	activity := activitylog.New(50)

	svc := NewSyncService(ingestion, analyzer, links, activity, time.Minute, zap.NewNop())
	result, err := svc.Sync(context.Background(), "manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Analyzed != 1 || result.Unmatched != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(analyzer.runs) != 1 || analyzer.runs[0] != linked {
		t.Fatalf("unexpected analyzer calls: %v", analyzer.runs)
	}

	entries := activity.List(50)
	for _, action := range []string{"sync_started", "candidate_analyzed", "candidate_no_jd_match", "analysis_failed", "sync_completed"} {
		if !hasAction(entries, action) {
			t.Fatalf("expected %q entry, got %+v", action, entries)
		}
	}
}

func TestSyncLogsEveryIngestionError(t *testing.T) {
	ingestion := &fakeIngestion{result: &models.IngestionResult{
		Errors: []string{
			"broken.pdf (101): text extraction failed",
			"mark read 102: connection reset",
		},
	}}
	activity := activitylog.New(50)

	svc := NewSyncService(ingestion, &fakeAnalyzer{}, &stubLinkRepo{}, activity, time.Minute, zap.NewNop())
	if _, err := svc.Sync(context.Background(), "manual"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := activity.List(50)
	for _, want := range ingestion.result.Errors {
		found := false
		for _, e := range entries {
			if e.Action == "ingestion_error" && e.Message == want {
				if e.Level != activitylog.LevelError {
					t.Errorf("entry %q has level %q", want, e.Level)
				}
				found = true
			}
		}
		if !found {
			t.Errorf("ingestion error %q never reached the activity log", want)
		}
	}
}

func TestSyncOneFailureDoesNotAbortBatch(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	jobID := uuid.New()

	links := &stubLinkRepo{links: []models.CandidateJobLink{
		{CandidateID: first, JobDescriptionID: jobID, Confidence: 5},
		{CandidateID: second, JobDescriptionID: jobID, Confidence: 5},
	}}
	ingestion := &fakeIngestion{result: &models.IngestionResult{
		ImportedCandidates: []uuid.UUID{first, second},
	}}
	analyzer := &fakeAnalyzer{failFor: map[uuid.UUID]error{first: errors.New("boom")}}

	svc := NewSyncService(ingestion, analyzer, links, activitylog.New(10), time.Minute, zap.NewNop())
	result, err := svc.Sync(context.Background(), "manual")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 1 || result.Analyzed != 1 {
		t.Fatalf("expected batch to continue past failure: %+v", result)
	}
}

func TestSyncIngestionErrorAborts(t *testing.T) {
	ingestion := &fakeIngestion{err: errors.New("imap unreachable")}
	activity := activitylog.New(10)
	svc := NewSyncService(ingestion, &fakeAnalyzer{}, &stubLinkRepo{}, activity, time.Minute, zap.NewNop())

	if _, err := svc.Sync(context.Background(), "manual"); err == nil {
		t.Fatal("expected mailbox failure to abort the sync")
	}
	if !hasAction(activity.List(10), "sync_failed") {
		t.Fatal("expected sync_failed entry")
	}
}

func TestSyncMutualExclusion(t *testing.T) {
	ingestion := &fakeIngestion{delay: 20 * time.Millisecond}
	svc := NewSyncService(ingestion, &fakeAnalyzer{}, &stubLinkRepo{}, activitylog.New(100), time.Minute, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Sync(context.Background(), "concurrent"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ingestion.overlap.Load() {
		t.Fatal("two syncs ran concurrently")
	}
}
