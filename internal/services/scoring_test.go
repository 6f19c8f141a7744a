package services

import (
	"errors"
	"strings"
	"testing"

	"hiring-agent/internal/config"
	"hiring-agent/internal/models"
)

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		WeightSkillMatch:        40,
		WeightExperience:        25,
		WeightDomainKnowledge:   15,
		WeightProjectComplexity: 10,
		WeightSoftSkills:        10,
		ThresholdStrongHire:     80,
		ThresholdBorderline:     60,
	}
}

func newTestEngine(t *testing.T) *ScoringEngine {
	t.Helper()
	engine, err := NewScoringEngine(testScoringConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

func TestNewScoringEngineRejectsBadWeights(t *testing.T) {
	cfg := testScoringConfig()
	cfg.WeightSoftSkills = 20
	if _, err := NewScoringEngine(cfg); err == nil {
		t.Fatal("expected error for weights summing to 110")
	}
}

func TestFinalScoreWeightedAverage(t *testing.T) {
	engine := newTestEngine(t)
	a := &ResumeAnalysis{
		SkillMatchScore:        80,
		ExperienceScore:        70,
		DomainScore:            60,
		ProjectComplexityScore: 50,
		SoftSkillsScore:        90,
	}
	// 80*40 + 70*25 + 60*15 + 50*10 + 90*10 = 7250 -> 72.50
	if got := engine.FinalScore(a); got != 72.5 {
		t.Fatalf("expected 72.5, got %v", got)
	}
}

func TestFinalScoreRoundsToTwoDecimals(t *testing.T) {
	engine := newTestEngine(t)
	a := &ResumeAnalysis{
		SkillMatchScore:        77.77,
		ExperienceScore:        66.66,
		DomainScore:            55.55,
		ProjectComplexityScore: 44.44,
		SoftSkillsScore:        33.33,
	}
	// 3110.8 + 1666.5 + 833.25 + 444.4 + 333.3 = 6388.25 -> 63.8825 -> 63.88
	if got := engine.FinalScore(a); got != 63.88 {
		t.Fatalf("expected 63.88, got %v", got)
	}
}

func TestDecideRiskAdjustedThresholds(t *testing.T) {
	engine := newTestEngine(t)
	cases := []struct {
		score float64
		risk  RiskLevel
		want  Decision
	}{
		{82, RiskLow, DecisionStrongHire},
		{82, RiskMedium, DecisionBorderline},  // strong threshold raised to 85
		{87, RiskMedium, DecisionStrongHire},
		{82, RiskHigh, DecisionBorderline},    // strong threshold raised to 90
		{62, RiskLow, DecisionBorderline},
		{62, RiskHigh, DecisionReject},        // borderline threshold raised to 65
		{66, RiskHigh, DecisionBorderline},
		{59, RiskLow, DecisionReject},
		{80, RiskLow, DecisionStrongHire},     // thresholds are inclusive
		{60, RiskLow, DecisionBorderline},
		{0, RiskLow, DecisionReject},
	}
	for _, tc := range cases {
		if got := engine.Decide(tc.score, tc.risk); got != tc.want {
			t.Fatalf("Decide(%v, %s) = %s, want %s", tc.score, tc.risk, got, tc.want)
		}
	}
}

func TestScoreZeroDefaultIsReject(t *testing.T) {
	engine := newTestEngine(t)
	a := DefaultAnalysis(errors.New("request timed out"))
	finalScore, decision := engine.Score(a)
	if finalScore != 0 {
		t.Fatalf("expected 0, got %v", finalScore)
	}
	if decision != DecisionReject {
		t.Fatalf("expected reject, got %s", decision)
	}
	if !strings.Contains(a.Recommendation, "Not Recommended") {
		t.Fatalf("unexpected recommendation: %q", a.Recommendation)
	}
}

func TestRecommendationTemplates(t *testing.T) {
	engine := newTestEngine(t)
	a := &ResumeAnalysis{
		Strengths:           StringList{"deep Go experience", "event-driven design", "team leadership", "extra"},
		Weaknesses:          StringList{"no Kubernetes exposure", "short tenures"},
		Risks:               StringList{"employment gap in 2024"},
		InterviewFocusAreas: StringList{"distributed systems", "SQL tuning"},
	}

	strong := engine.Recommendation(86.5, DecisionStrongHire, a)
	if !strings.Contains(strong, "**Strong Hire Recommendation** (Score: 86.50/100)") {
		t.Fatalf("unexpected strong hire text: %q", strong)
	}
	if !strings.Contains(strong, "deep Go experience, event-driven design, team leadership") {
		t.Fatalf("expected top three strengths, got: %q", strong)
	}
	if strings.Contains(strong, "extra") {
		t.Fatalf("expected strengths capped at three, got: %q", strong)
	}
	if !strings.Contains(strong, "1 risk(s) identified") {
		t.Fatalf("expected risk note, got: %q", strong)
	}

	borderline := engine.Recommendation(65, DecisionBorderline, a)
	if !strings.Contains(borderline, "**Borderline Candidate**") ||
		!strings.Contains(borderline, "Must verify:") {
		t.Fatalf("unexpected borderline text: %q", borderline)
	}

	reject := engine.Recommendation(40, DecisionReject, a)
	if !strings.Contains(reject, "**Not Recommended**") ||
		!strings.Contains(reject, "Do not proceed to interview.") {
		t.Fatalf("unexpected reject text: %q", reject)
	}
}

func TestRankStableDescending(t *testing.T) {
	engine := newTestEngine(t)
	candidates := []models.RankedCandidate{
		{CandidateName: "low", FinalScore: 40},
		{CandidateName: "tied-first", FinalScore: 75},
		{CandidateName: "tied-second", FinalScore: 75},
		{CandidateName: "high", FinalScore: 91.2},
	}
	engine.Rank(candidates)

	wantOrder := []string{"high", "tied-first", "tied-second", "low"}
	for i, want := range wantOrder {
		if candidates[i].CandidateName != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, candidates[i].CandidateName)
		}
		if candidates[i].Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, candidates[i].Rank)
		}
	}
}
