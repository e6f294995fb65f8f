package retrieval

import (
	"fmt"
	"strings"

	"github.com/sells-group/guideline/internal/model"
)

// templateRule is one keyword-matched canned answer.
type templateRule struct {
	keywords []string
	answer   string
}

// topicRules are the domain-specific canned answers, checked in order after
// the schedule redirect and the not-found message.
var topicRules = []templateRule{
	{
		keywords: []string{"receipt"},
		answer:   "Receipts are required for expenses above **$25**. Keep itemized receipts when applicable.",
	},
	{
		keywords: []string{"meal", "food"},
		answer:   "Meals are capped at **$60/day**, and an itemized receipt is required.",
	},
	{
		keywords: []string{"hotel"},
		answer:   "Hotels are capped at **$220/night**. Exceptions require approval.",
	},
	{
		keywords: []string{"rideshare", "uber", "lyft", "airport"},
		answer:   "Rideshare is allowed for airport transit. For other cases, follow the transportation guidance in the travel policy.",
	},
}

// scheduleTerms route schedule-shaped questions away from the policy corpus.
var scheduleTerms = []string{"schedule", "shift", "on-call", "oncall", "on call", "availability", "hours", "holiday"}

// TemplateAnswer composes the locally templated answer for a question. The
// rules fire in fixed order: schedule redirect, not-found apology, canned
// topic answers, then a generic sentence pointing at the best citation.
func TemplateAnswer(question string, citations []model.Citation, role string) string {
	q := strings.ToLower(question)

	for _, term := range scheduleTerms {
		if strings.Contains(q, term) {
			return "I can help with schedule questions on the Schedule tab. For policy questions, I’ll cite the exact section and effective date."
		}
	}

	if len(citations) == 0 {
		return fmt.Sprintf("I couldn’t find this in the currently ingested policies for your access level (**%s**). I can route this to the Review Queue for an official answer.", role)
	}

	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.answer
			}
		}
	}

	top := citations[0]
	return fmt.Sprintf("Here’s what the policy says (with citations). The most relevant section is from **%s** (p.%d).", top.DocTitle, top.PageStart)
}
