package retrieval

import (
	"fmt"
	"strings"

	"github.com/sells-group/guideline/internal/model"
)

// numericLimitTerms mark questions that ask for a single numeric fact.
var numericLimitTerms = []string{
	"limit", "how much", "maximum", "max", "per day", "per night", "$", "dollar",
}

// DetectConflict flags citation sets that may disagree on a numeric fact:
// the question must use numeric-limit vocabulary and the citations must
// span at least two source documents and two distinct (page, document)
// pairs. This is a coarse source-spread proxy, not semantic contradiction
// detection.
func DetectConflict(question string, citations []model.Citation) bool {
	q := strings.ToLower(question)
	wantsNumber := false
	for _, term := range numericLimitTerms {
		if strings.Contains(q, term) {
			wantsNumber = true
			break
		}
	}
	if !wantsNumber {
		return false
	}

	docs := make(map[string]struct{})
	pages := make(map[string]struct{})
	for _, c := range citations {
		docs[c.DocID] = struct{}{}
		pages[fmt.Sprintf("%d:%s", c.PageStart, c.DocID)] = struct{}{}
	}
	return len(docs) >= 2 && len(pages) >= 2
}
