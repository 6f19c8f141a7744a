package services

import (
	"fmt"
	"strings"
)

const minQuestionsPerCategory = 5

// EnsureMinimumQuestions tops every interview question category up to
// five entries. Model answers that came back short get tailored
// fallbacks first, then numbered generic fillers; existing questions
// are kept and never duplicated.
func EnsureMinimumQuestions(a *ResumeAnalysis, roleTitle, domain string) {
	primarySkill := "the core technologies"
	if len(a.Skills) > 0 {
		primarySkill = a.Skills[0]
	}
	if roleTitle == "" {
		roleTitle = "this role"
	}
	if domain == "" {
		domain = "this"
	}

	a.TechnicalQuestions = topUp(a.TechnicalQuestions, "technical", roleTitle, []string{
		fmt.Sprintf("Walk me through your hands-on experience with %s.", primarySkill),
		"What was the most technically challenging problem you solved in the last year?",
		"How do you approach debugging an incident in production?",
		fmt.Sprintf("How do you keep your %s knowledge current?", primarySkill),
		"Describe a piece of work you are proud of and what made it hard.",
	})

	a.SystemDesignQuestions = topUp(a.SystemDesignQuestions, "system design", roleTitle, []string{
		fmt.Sprintf("How would you design the core service a %s typically owns?", roleTitle),
		fmt.Sprintf("How would you scale a system built on %s under ten times the load?", primarySkill),
		"Where would you introduce caching in that architecture, and what would it cost you?",
		fmt.Sprintf("How do you approach data modeling for the %s domain?", domain),
		"Walk me through a consistency versus availability trade-off you have made.",
	})

	a.BehavioralQuestions = topUp(a.BehavioralQuestions, "behavioral", roleTitle, []string{
		"Tell me about a time you disagreed with a teammate on a technical decision.",
		"Describe a project that failed. What did you take away from it?",
		"How do you handle priorities shifting close to a deadline?",
		"Tell me about a time you mentored someone, or were mentored yourself.",
		"What kind of team environment brings out your best work?",
	})

	a.CustomQuestions = topUp(a.CustomQuestions, "custom", roleTitle, []string{
		fmt.Sprintf("What attracted you to the %s position?", roleTitle),
		fmt.Sprintf("Which part of your background maps most directly to the %s domain?", domain),
		"What would you want to learn in your first six months here?",
		"Which of your skills do you feel is most underused today?",
		"What questions do you have about the role or the team?",
	})
}

func topUp(existing StringList, category, roleTitle string, fallbacks []string) StringList {
	out := make(StringList, 0, minQuestionsPerCategory)
	seen := make(map[string]bool)

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		key := strings.ToLower(q)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, q)
	}

	for _, q := range existing {
		add(q)
	}
	for _, q := range fallbacks {
		if len(out) >= minQuestionsPerCategory {
			break
		}
		add(q)
	}
	for i := 1; len(out) < minQuestionsPerCategory; i++ {
		add(fmt.Sprintf("Additional %s question %d for %s.", category, i, roleTitle))
	}
	return out
}
