package services

import (
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-agent/internal/config"
	"hiring-agent/internal/models"
)

type stubCandidateRepo struct {
	duplicate *models.Candidate
	created   []*models.Candidate
	bySource  map[string]bool
}

func (s *stubCandidateRepo) Create(c *models.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.created = append(s.created, c)
	return nil
}

func (s *stubCandidateRepo) FindByID(id uuid.UUID) (*models.Candidate, error) {
	for _, c := range s.created {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubCandidateRepo) FindAll() ([]models.Candidate, error) { return nil, nil }

func (s *stubCandidateRepo) FindDuplicate(name, email string) (*models.Candidate, error) {
	return s.duplicate, nil
}

func (s *stubCandidateRepo) ExistsBySource(messageID, attachmentID string) (bool, error) {
	return s.bySource[messageID+":"+attachmentID], nil
}

type stubJobRepo struct {
	jobs []models.JobDescription
}

func (s *stubJobRepo) Create(j *models.JobDescription) error { return nil }
func (s *stubJobRepo) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	for _, j := range s.jobs {
		if j.ID == id {
			job := j
			return &job, nil
		}
	}
	return nil, nil
}
func (s *stubJobRepo) FindAll() ([]models.JobDescription, error) { return s.jobs, nil }

type stubLinkRepo struct {
	links []models.CandidateJobLink
}

func (s *stubLinkRepo) Create(l *models.CandidateJobLink) error {
	s.links = append(s.links, *l)
	return nil
}
func (s *stubLinkRepo) CreateAll(ls []models.CandidateJobLink) error {
	s.links = append(s.links, ls...)
	return nil
}
func (s *stubLinkRepo) FindByCandidate(id uuid.UUID) ([]models.CandidateJobLink, error) {
	return s.links, nil
}
func (s *stubLinkRepo) BestForCandidate(id uuid.UUID) (*models.CandidateJobLink, error) {
	var best *models.CandidateJobLink
	for i := range s.links {
		if s.links[i].CandidateID != id {
			continue
		}
		if best == nil || s.links[i].Confidence > best.Confidence {
			best = &s.links[i]
		}
	}
	return best, nil
}

func newTestMatcher(jobs *stubJobRepo, links *stubLinkRepo) MatcherService {
	return NewMatcherService(
		&stubCandidateRepo{},
		jobs,
		links,
		config.AutoLinkConfig{MaxLinks: 3, TieWindow: 1},
		zap.NewNop(),
	)
}

func TestMatchScoreSkillsTitleDomain(t *testing.T) {
	m := newTestMatcher(&stubJobRepo{}, &stubLinkRepo{})
	job := &models.JobDescription{
		Title:          "Backend Engineer",
		RequiredSkills: []string{"Go", "PostgreSQL"},
		Domain:         "fintech",
	}
	resume := "Senior Backend Engineer with 6 years of Go and PostgreSQL experience in fintech."

	// two skills (2 each) + title + domain
	if got := m.MatchScore(resume, job); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}

func TestMatchScoreTwoSkillsAndTitle(t *testing.T) {
	m := newTestMatcher(&stubJobRepo{}, &stubLinkRepo{})
	job := &models.JobDescription{
		Title:          "Data Engineer",
		RequiredSkills: []string{"Python", "Spark"},
		Domain:         "logistics",
	}
	resume := "Data Engineer who builds Python and Spark pipelines."

	if got := m.MatchScore(resume, job); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestMatchScoreNoOverlap(t *testing.T) {
	m := newTestMatcher(&stubJobRepo{}, &stubLinkRepo{})
	job := &models.JobDescription{
		Title:          "iOS Developer",
		RequiredSkills: []string{"Swift"},
		Domain:         "healthcare",
	}
	if got := m.MatchScore("Embedded C firmware engineer.", job); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestAutoLinkTieWindowAndCap(t *testing.T) {
	jobA := models.JobDescription{ID: uuid.New(), Title: "Backend Engineer", RequiredSkills: []string{"Go", "Kafka"}, Domain: "fintech"}
	jobB := models.JobDescription{ID: uuid.New(), Title: "Platform Engineer", RequiredSkills: []string{"Go", "Kafka"}}
	jobC := models.JobDescription{ID: uuid.New(), Title: "Site Reliability Engineer", RequiredSkills: []string{"Go"}}
	jobD := models.JobDescription{ID: uuid.New(), Title: "Frontend Developer", RequiredSkills: []string{"React"}}

	jobs := &stubJobRepo{jobs: []models.JobDescription{jobA, jobB, jobC, jobD}}
	links := &stubLinkRepo{}
	m := newTestMatcher(jobs, links)

	resume := "Backend Engineer writing Go services with Kafka messaging for fintech clients."
	// jobA: 2+2+1+1 = 6, jobB: 2+2 = 4, jobC: 2, jobD: 0

	created, err := m.AutoLink(uuid.New(), resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected only the top job within the tie window, got %d links", len(created))
	}
	if created[0].JobDescriptionID != jobA.ID {
		t.Fatalf("expected link to best job")
	}
	if created[0].Confidence != 6 || created[0].LinkedBy != models.LinkedByAI {
		t.Fatalf("unexpected link: %+v", created[0])
	}
}

func TestAutoLinkIncludesTies(t *testing.T) {
	jobA := models.JobDescription{ID: uuid.New(), Title: "Backend Engineer", RequiredSkills: []string{"Go", "Kafka"}}
	jobB := models.JobDescription{ID: uuid.New(), Title: "Stream Processing Engineer", RequiredSkills: []string{"Go", "Kafka"}}

	jobs := &stubJobRepo{jobs: []models.JobDescription{jobA, jobB}}
	links := &stubLinkRepo{}
	m := newTestMatcher(jobs, links)

	// Both jobs score 4; both sit inside the tie window.
	created, err := m.AutoLink(uuid.New(), "Go and Kafka developer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected both tied jobs linked, got %d", len(created))
	}
}

func TestAutoLinkCapsLinkCount(t *testing.T) {
	var all []models.JobDescription
	for i := 0; i < 5; i++ {
		all = append(all, models.JobDescription{
			ID:             uuid.New(),
			Title:          "Backend Engineer",
			RequiredSkills: []string{"Go"},
		})
	}
	jobs := &stubJobRepo{jobs: all}
	links := &stubLinkRepo{}
	m := newTestMatcher(jobs, links)

	created, err := m.AutoLink(uuid.New(), "Backend Engineer working in Go.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected cap of 3 links, got %d", len(created))
	}
}

func TestAutoLinkNoJobsNoLinks(t *testing.T) {
	links := &stubLinkRepo{}
	m := newTestMatcher(&stubJobRepo{}, links)
	created, err := m.AutoLink(uuid.New(), "Go developer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 || len(links.links) != 0 {
		t.Fatal("expected no links")
	}
}

func TestAutoLinkZeroScoreNeverLinked(t *testing.T) {
	jobs := &stubJobRepo{jobs: []models.JobDescription{
		{ID: uuid.New(), Title: "iOS Developer", RequiredSkills: []string{"Swift"}, Domain: "healthcare"},
	}}
	links := &stubLinkRepo{}
	m := newTestMatcher(jobs, links)

	created, err := m.AutoLink(uuid.New(), "Mainframe COBOL programmer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no links for zero-score resume, got %d", len(created))
	}
}
