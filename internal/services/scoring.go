package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"hiring-agent/internal/config"
	"hiring-agent/internal/models"
)

type Decision string

const (
	DecisionStrongHire Decision = "strong_hire"
	DecisionBorderline Decision = "borderline"
	DecisionReject     Decision = "reject"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ScoringEngine turns the per-dimension scores of an analysis into a
// final score and a hiring decision. It is fully deterministic: the
// model scores the dimensions, the engine does the arithmetic.
type ScoringEngine struct {
	weights    config.ScoringConfig
	strong     float64
	borderline float64
}

func NewScoringEngine(cfg config.ScoringConfig) (*ScoringEngine, error) {
	sum := cfg.WeightSkillMatch + cfg.WeightExperience + cfg.WeightDomainKnowledge +
		cfg.WeightProjectComplexity + cfg.WeightSoftSkills
	if sum != 100 {
		return nil, fmt.Errorf("scoring weights must sum to 100, got %d", sum)
	}
	return &ScoringEngine{
		weights:    cfg,
		strong:     cfg.ThresholdStrongHire,
		borderline: cfg.ThresholdBorderline,
	}, nil
}

// FinalScore is the weighted average of the five dimensions, rounded
// to two decimals.
func (e *ScoringEngine) FinalScore(a *ResumeAnalysis) float64 {
	total := a.SkillMatchScore*float64(e.weights.WeightSkillMatch) +
		a.ExperienceScore*float64(e.weights.WeightExperience) +
		a.DomainScore*float64(e.weights.WeightDomainKnowledge) +
		a.ProjectComplexityScore*float64(e.weights.WeightProjectComplexity) +
		a.SoftSkillsScore*float64(e.weights.WeightSoftSkills)
	return round2(total / 100)
}

// Decide applies risk-adjusted thresholds: higher risk raises the bar
// before a candidate clears strong hire or borderline, never lowers it.
func (e *ScoringEngine) Decide(finalScore float64, risk RiskLevel) Decision {
	strong, borderline := e.strong, e.borderline
	switch risk {
	case RiskHigh:
		strong += 10
		borderline += 5
	case RiskMedium:
		strong += 5
	}

	switch {
	case finalScore >= strong:
		return DecisionStrongHire
	case finalScore >= borderline:
		return DecisionBorderline
	default:
		return DecisionReject
	}
}

// Recommendation renders the human-readable verdict stored alongside
// the decision.
func (e *ScoringEngine) Recommendation(finalScore float64, decision Decision, a *ResumeAnalysis) string {
	switch decision {
	case DecisionStrongHire:
		text := fmt.Sprintf("**Strong Hire Recommendation** (Score: %.2f/100)\n\n"+
			"This candidate is well-qualified for the role. Key strengths: %s.",
			finalScore, joinOr(top(a.Strengths, 3), "strong overall profile"))
		if len(a.Risks) > 0 {
			text += fmt.Sprintf(" Note: %d risk(s) identified that should be probed during the interview.", len(a.Risks))
		}
		text += " Proceed to technical interview round."
		if len(a.InterviewFocusAreas) > 0 {
			text += fmt.Sprintf("\n\nFocus areas: %s.", strings.Join(top(a.InterviewFocusAreas, 3), ", "))
		}
		return text

	case DecisionBorderline:
		text := fmt.Sprintf("**Borderline Candidate** (Score: %.2f/100)\n\n"+
			"Strengths: %s. Concerns: %s.",
			finalScore,
			joinOr(top(a.Strengths, 2), "some relevant experience"),
			joinOr(top(a.Weaknesses, 2), "gaps against the role requirements"))
		if len(a.Risks) > 0 {
			text += fmt.Sprintf(" Risks: %s.", strings.Join(top(a.Risks, 2), "; "))
		}
		text += fmt.Sprintf("\n\nMust verify: %s.",
			joinOr(top(a.InterviewFocusAreas, 3), "core skills in a screening call"))
		return text

	default:
		text := fmt.Sprintf("**Not Recommended** (Score: %.2f/100)\n\n"+
			"Main gaps: %s.",
			finalScore, joinOr(top(a.Weaknesses, 3), "insufficient match with the role requirements"))
		if len(a.Risks) > 0 {
			text += fmt.Sprintf(" Risks: %s.", strings.Join(top(a.Risks, 3), "; "))
		}
		text += " Do not proceed to interview."
		return text
	}
}

// Score runs the full pipeline over a normalized analysis and writes
// the results back onto it.
func (e *ScoringEngine) Score(a *ResumeAnalysis) (float64, Decision) {
	finalScore := e.FinalScore(a)
	decision := e.Decide(finalScore, RiskLevel(a.RiskLevel))
	a.Recommendation = e.Recommendation(finalScore, decision, a)
	return finalScore, decision
}

// Rank sorts candidates by final score, highest first, and assigns
// 1-based ranks. The sort is stable so equal scores keep their
// incoming order.
func (e *ScoringEngine) Rank(candidates []models.RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func top(list StringList, n int) []string {
	if len(list) < n {
		n = len(list)
	}
	return list[:n]
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
