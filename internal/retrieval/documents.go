package retrieval

import "github.com/sells-group/guideline/internal/model"

// CurrentDocuments filters docs down to the current revision of each policy
// key: the one with the lexicographically greatest effective date. Ties
// break deterministically on the newer CreatedAt, then on the greater ID,
// so the result does not depend on store enumeration order.
func CurrentDocuments(docs []model.Document) []model.Document {
	newest := make(map[string]model.Document)
	var order []string

	for _, d := range docs {
		cur, ok := newest[d.PolicyKey]
		if !ok {
			newest[d.PolicyKey] = d
			order = append(order, d.PolicyKey)
			continue
		}
		if supersedes(d, cur) {
			newest[d.PolicyKey] = d
		}
	}

	out := make([]model.Document, 0, len(order))
	for _, key := range order {
		out = append(out, newest[key])
	}
	return out
}

// supersedes reports whether a is a newer revision than b of the same
// policy key.
func supersedes(a, b model.Document) bool {
	if a.EffectiveDate != b.EffectiveDate {
		return a.EffectiveDate > b.EffectiveDate
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
