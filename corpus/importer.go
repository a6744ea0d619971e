package corpus

import (
	"context"
	"fmt"

	"hukukai-backend/models"
	"hukukai-backend/repository"

	"go.uber.org/zap"
)

// ImportResult counts the records written by an import
type ImportResult struct {
	Statutes         int `json:"statutes"`
	Articles         int `json:"articles"`
	Decisions        int `json:"decisions"`
	SkippedDecisions int `json:"skipped_decisions"`
}

// Importer writes seed documents into a reference store
type Importer struct {
	store  repository.ReferenceStore
	logger *zap.Logger
}

// ImporterOption is a functional option for Importer
type ImporterOption func(*Importer)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ImporterOption {
	return func(i *Importer) {
		i.logger = logger
	}
}

// NewImporter creates an importer for store
func NewImporter(store repository.ReferenceStore, opts ...ImporterOption) *Importer {
	i := &Importer{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import inserts every law with its articles, then every decision. Decisions
// already present under the same number and chamber are skipped. The first
// failing insert aborts the import; records written before it are kept.
func (i *Importer) Import(ctx context.Context, seed *Seed) (*ImportResult, error) {
	result := &ImportResult{}

	for _, law := range seed.Laws {
		statute := law.statute()
		if err := i.store.InsertStatute(ctx, statute); err != nil {
			return result, fmt.Errorf("failed to insert law %q: %w", law.Name, err)
		}
		result.Statutes++

		for _, a := range law.Articles {
			article := &models.StatuteArticle{
				StatuteID:     statute.ID,
				ArticleNumber: a.ArticleNo,
				Content:       a.Content,
			}
			if err := i.store.InsertArticle(ctx, article); err != nil {
				return result, fmt.Errorf("failed to insert article %s of law %s: %w", a.ArticleNo, law.LawNo, err)
			}
			result.Articles++
		}
	}

	for _, d := range seed.Decisions {
		inserted, err := i.store.InsertDecision(ctx, d.decision())
		if err != nil {
			return result, fmt.Errorf("failed to insert decision %s: %w", d.DecisionNo, err)
		}
		if !inserted {
			result.SkippedDecisions++
			i.logger.Debug("Decision already present, skipping",
				zap.String("decision_no", d.DecisionNo),
				zap.String("chamber", d.Chamber))
			continue
		}
		result.Decisions++
	}

	i.logger.Info("Corpus import completed",
		zap.Int("statutes", result.Statutes),
		zap.Int("articles", result.Articles),
		zap.Int("decisions", result.Decisions),
		zap.Int("skipped_decisions", result.SkippedDecisions))

	return result, nil
}
