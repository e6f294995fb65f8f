package retrieval

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/guideline/internal/model"
	"github.com/sells-group/guideline/internal/store"
	"github.com/sells-group/guideline/pkg/provider"
)

// Escalation gate thresholds on best distance.
const (
	// notFoundDistance: at or above this, the corpus is treated as having
	// no answer at all.
	notFoundDistance = 0.9
	// escalateDistance: strictly above this, the answer goes to review.
	escalateDistance = 0.5
)

// defaultProviderTimeout bounds the single generation-provider attempt.
const defaultProviderTimeout = 30 * time.Second

// Pipeline answers policy questions: retrieval, confidence classification,
// conflict detection, answer composition and the escalation gate. The
// provider is optional; when nil (or on any provider failure) the templated
// answer stands.
type Pipeline struct {
	store           store.Store
	provider        provider.Provider
	providerTimeout time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithProvider enables generation-provider composition. The provider is
// chosen once at startup and injected; the pipeline never selects backends
// mid-request.
func WithProvider(p provider.Provider) PipelineOption {
	return func(pl *Pipeline) {
		pl.provider = p
	}
}

// WithProviderTimeout overrides the per-request provider deadline.
func WithProviderTimeout(d time.Duration) PipelineOption {
	return func(pl *Pipeline) {
		if d > 0 {
			pl.providerTimeout = d
		}
	}
}

// NewPipeline creates a Pipeline over the given store.
func NewPipeline(st store.Store, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:           st,
		providerTimeout: defaultProviderTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ask answers one question for a requester role. Scoring, classification
// and conflict detection are pure; the only fallible steps are store reads,
// the review insert, and the provider call, which degrades to the template
// answer instead of failing the request.
func (p *Pipeline) Ask(ctx context.Context, question, role string) (*model.Answer, error) {
	docs, err := p.store.ListDocuments(ctx, store.DocumentFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: list documents")
	}

	current := CurrentDocuments(docs)
	if len(current) == 0 {
		return &model.Answer{
			Answer:        "No documents found.",
			Citations:     []model.Citation{},
			Confidence:    model.ConfidenceLow,
			BestDistance:  1.0,
			LowConfidence: true,
		}, nil
	}

	titles := make(map[string]string, len(current))
	docIDs := make([]string, 0, len(current))
	for _, d := range current {
		titles[d.ID] = d.Title
		docIDs = append(docIDs, d.ID)
	}

	chunks, err := p.store.ListChunks(ctx, docIDs, model.AccessForRole(role))
	if err != nil {
		return nil, eris.Wrap(err, "retrieval: list chunks")
	}

	candidates := ScoreChunks(question, chunks)
	citations := AssembleCitations(candidates, titles)
	best := BestDistance(citations)
	confidence := ConfidenceFromDistance(best)
	conflict := DetectConflict(question, citations)

	notFound := len(citations) == 0 || best >= notFoundDistance
	lowConfidence := notFound || best > escalateDistance || conflict

	answer := TemplateAnswer(question, citations, role)

	if p.provider != nil && len(citations) > 0 {
		answer, confidence, citations, lowConfidence = p.composeWithProvider(
			ctx, question, answer, confidence, citations, best, lowConfidence,
		)
	}

	result := &model.Answer{
		Answer:        answer,
		Citations:     citations,
		Confidence:    confidence,
		BestDistance:  best,
		LowConfidence: lowConfidence,
	}

	if lowConfidence {
		reason := model.ReasonLowConfidence
		switch {
		case notFound:
			reason = model.ReasonNotFound
		case conflict:
			reason = model.ReasonConflict
		}

		var draft *string
		if !notFound {
			draft = &answer
		}

		item, err := p.store.CreateReviewItem(ctx, question, reason, draft, citations)
		if err != nil {
			return nil, eris.Wrap(err, "retrieval: create review item")
		}
		result.ReviewID = &item.ID
	}

	return result, nil
}

// composeWithProvider consults the generation provider and reconciles its
// output with the locally assembled citations. Any provider failure is
// logged and swallowed; the template answer already computed stands.
func (p *Pipeline) composeWithProvider(
	ctx context.Context,
	question, answer string,
	confidence model.Confidence,
	citations []model.Citation,
	best float64,
	lowConfidence bool,
) (string, model.Confidence, []model.Citation, bool) {
	candidates := make([]provider.Candidate, len(citations))
	for i, c := range citations {
		candidates[i] = provider.Candidate{
			ChunkID:   c.ChunkID,
			DocTitle:  c.DocTitle,
			PageStart: c.PageStart,
			Quote:     c.Quote,
		}
	}

	pctx, cancel := context.WithTimeout(ctx, p.providerTimeout)
	defer cancel()

	res, err := p.provider.Compose(pctx, provider.ComposeRequest{
		Question:     question,
		Candidates:   candidates,
		BestDistance: best,
	})
	if err != nil {
		zap.L().Warn("retrieval: provider failed, using template answer",
			zap.Error(err),
		)
		return answer, confidence, citations, lowConfidence
	}

	answer = res.Answer
	if c := model.Confidence(res.Confidence); c.Valid() {
		confidence = c
	}
	if res.Escalate {
		lowConfidence = true
	}

	if len(res.UsedChunkIDs) > 0 {
		used := make(map[string]struct{}, len(res.UsedChunkIDs))
		for _, id := range res.UsedChunkIDs {
			used[id] = struct{}{}
		}
		narrowed := make([]model.Citation, 0, len(citations))
		for _, c := range citations {
			if _, ok := used[c.ChunkID]; ok {
				narrowed = append(narrowed, c)
			}
		}
		// A provider naming only unknown chunk ids would wipe the citation
		// list; keep the originals instead.
		if len(narrowed) > 0 {
			citations = narrowed
		} else {
			zap.L().Warn("retrieval: provider cited unknown chunks, keeping original citations",
				zap.Strings("used_chunk_ids", res.UsedChunkIDs),
			)
		}
	}

	return answer, confidence, citations, lowConfidence
}
