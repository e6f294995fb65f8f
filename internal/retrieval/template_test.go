package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/guideline/internal/model"
)

func TestTemplateAnswer_ScheduleRedirect(t *testing.T) {
	for _, q := range []string{
		"What is my schedule?",
		"When does my shift start?",
		"Am I on-call this week?",
		"Any holidays coming up?",
	} {
		answer := TemplateAnswer(q, nil, "internal")
		assert.Contains(t, answer, "Schedule tab", "question %q", q)
	}
}

func TestTemplateAnswer_NotFound(t *testing.T) {
	answer := TemplateAnswer("What about spaceships?", nil, "internal")
	assert.Contains(t, answer, "couldn’t find")
	assert.Contains(t, answer, "**internal**")
	assert.Contains(t, answer, "Review Queue")
}

func TestTemplateAnswer_CannedTopics(t *testing.T) {
	citations := []model.Citation{{DocTitle: "Travel Policy 2025", PageStart: 1}}

	tests := []struct {
		question string
		want     string
	}{
		{"What is the meals limit?", "$60/day"},
		{"Do I need a receipt?", "$25"},
		{"What is the hotel cap?", "$220/night"},
		{"Can I take an uber?", "Rideshare"},
		{"Is food covered?", "$60/day"},
	}
	for _, tt := range tests {
		assert.Contains(t, TemplateAnswer(tt.question, citations, "internal"), tt.want, "question %q", tt.question)
	}
}

func TestTemplateAnswer_GenericFallback(t *testing.T) {
	citations := []model.Citation{{DocTitle: "Travel Policy 2025", PageStart: 2}}
	answer := TemplateAnswer("What does the policy say about flights?", citations, "internal")
	assert.Contains(t, answer, "**Travel Policy 2025**")
	assert.Contains(t, answer, "(p.2)")
}

func TestTemplateAnswer_RuleOrder(t *testing.T) {
	// Schedule wording wins even when citations exist and a canned topic
	// also matches.
	citations := []model.Citation{{DocTitle: "Travel Policy 2025", PageStart: 1}}
	answer := TemplateAnswer("What are the meal hours?", citations, "internal")
	assert.Contains(t, answer, "Schedule tab")
}
