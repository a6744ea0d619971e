package service

import (
	"context"
	"errors"
	"time"

	"hukukai-backend/citation"
	"hukukai-backend/metrics"
	"hukukai-backend/models"
	"hukukai-backend/repository"

	"go.uber.org/zap"
)

// DefaultLookupTimeout bounds each individual reference store call
const DefaultLookupTimeout = 2 * time.Second

// statuteNumbers maps citation abbreviations to canonical statute numbers.
// HUMK is recognized but has no entry, so it resolves to nothing.
var statuteNumbers = map[string]string{
	"TMK":  "4721",
	"TBK":  "6098",
	"TCK":  "5237",
	"İK":   "4857",
	"HMK":  "6100",
	"TTK":  "6102",
	"TKHK": "6502",
	"İYUK": "2577",
	"İİK":  "2004",
}

// StatuteNumberFor returns the canonical statute number for an abbreviation
func StatuteNumberFor(abbreviation string) (string, bool) {
	number, ok := statuteNumbers[abbreviation]
	return number, ok
}

// ReferenceResolver turns recognized citations into stored records
type ReferenceResolver struct {
	store   repository.ReferenceStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	timeout time.Duration
}

// ResolverOption is a functional option for ReferenceResolver
type ResolverOption func(*ReferenceResolver)

// ResolverWithLogger sets the logger
func ResolverWithLogger(logger *zap.Logger) ResolverOption {
	return func(r *ReferenceResolver) {
		r.logger = logger
	}
}

// ResolverWithMetrics sets the metrics collectors
func ResolverWithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *ReferenceResolver) {
		r.metrics = m
	}
}

// ResolverWithLookupTimeout sets the per-lookup timeout
func ResolverWithLookupTimeout(d time.Duration) ResolverOption {
	return func(r *ReferenceResolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewReferenceResolver creates a resolver reading from store
func NewReferenceResolver(store repository.ReferenceStore, opts ...ResolverOption) *ReferenceResolver {
	r := &ReferenceResolver{
		store:   store,
		logger:  zap.NewNop(),
		metrics: metrics.NewNop(),
		timeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolution is the outcome of resolving one recognition
type Resolution struct {
	Citations models.CitationPayload
	// Failures counts lookups that errored or timed out and were treated as not found
	Failures int
}

// Resolve looks up every recognized citation. Unknown abbreviations and missing
// records are skipped; store failures degrade the affected lookup to not found.
func (r *ReferenceResolver) Resolve(ctx context.Context, rec citation.Recognition) Resolution {
	res := Resolution{Citations: models.NewCitationPayload()}

	r.metrics.CitationsRecognized.WithLabelValues(metrics.KindStatute).Add(float64(len(rec.Statutes)))
	r.metrics.CitationsRecognized.WithLabelValues(metrics.KindDecision).Add(float64(len(rec.Decisions)))

	r.resolveStatutes(ctx, rec.Statutes, &res)
	r.resolveDecisions(ctx, rec.Decisions, &res)

	r.metrics.CitationsResolved.WithLabelValues(metrics.KindStatute).Add(float64(len(res.Citations.Laws)))
	r.metrics.CitationsResolved.WithLabelValues(metrics.KindDecision).Add(float64(len(res.Citations.Decisions)))
	return res
}

func (r *ReferenceResolver) resolveStatutes(ctx context.Context, cites []citation.StatuteCitation, res *Resolution) {
	index := make(map[string]int)     // statute number -> position in res
	missing := make(map[string]bool) // numbers already looked up without success

	for _, cite := range cites {
		number, ok := StatuteNumberFor(cite.Abbreviation)
		if !ok || missing[number] {
			continue
		}

		pos, seen := index[number]
		if !seen {
			lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
			statute, err := r.store.GetStatuteByNumber(lookupCtx, number)
			cancel()
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					r.lookupFailed(res, "get_statute_by_number", number, err)
				}
				missing[number] = true
				continue
			}

			pos = len(res.Citations.Laws)
			index[number] = pos
			res.Citations.Laws = append(res.Citations.Laws, models.LawCitation{
				Statute: *statute,
				Source:  models.SourceAnalysisText,
			})
		}

		// Later citations of the same statute only matter until an article matched
		if res.Citations.Laws[pos].MatchedArticle != nil {
			continue
		}
		lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		article, err := r.store.GetArticle(lookupCtx, res.Citations.Laws[pos].ID, cite.ArticleNumber)
		cancel()
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				r.lookupFailed(res, "get_article", number+"/"+cite.ArticleNumber, err)
			}
			continue
		}
		res.Citations.Laws[pos].MatchedArticle = article
	}
}

func (r *ReferenceResolver) resolveDecisions(ctx context.Context, cites []citation.DecisionCitation, res *Resolution) {
	seenKeys := make(map[string]bool)
	seenIDs := make(map[int64]bool)

	for _, cite := range cites {
		key := cite.Key()
		if seenKeys[key] {
			continue
		}
		seenKeys[key] = true

		lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		decision, err := r.store.FindDecision(lookupCtx, key, cite.Chamber)
		cancel()
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				r.lookupFailed(res, "find_decision", key, err)
			}
			continue
		}

		// Fuzzy matching can map two keys onto one record
		if seenIDs[decision.ID] {
			continue
		}
		seenIDs[decision.ID] = true
		res.Citations.Decisions = append(res.Citations.Decisions, models.DecisionCitation{
			CourtDecision: *decision,
			Source:        models.SourceAnalysisText,
		})
	}
}

func (r *ReferenceResolver) lookupFailed(res *Resolution, op, key string, err error) {
	res.Failures++
	r.metrics.LookupFailures.WithLabelValues(op).Inc()
	r.logger.Warn("Reference lookup failed, treating as not found",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err))
}
