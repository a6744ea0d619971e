package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hukukai-backend/citation"
	"hukukai-backend/keywords"
	"hukukai-backend/metrics"
	"hukukai-backend/models"
	"hukukai-backend/repository"
	"hukukai-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrStoreNotConfigured   = errors.New("reference store not set")
	ErrReportsNotConfigured = errors.New("report storage not set")
	ErrEmptyCaseDescription = errors.New("case description is required")
	ErrStatuteNotFound      = errors.New("statute not found")
	ErrDecisionNotFound     = errors.New("court decision not found")
	ErrReportNotFound       = errors.New("analysis report not found")
)

const (
	// DefaultResultLimit caps each citation list in an analysis response
	DefaultResultLimit = 10
	// keywordSearchConcurrency bounds parallel keyword searches per request
	keywordSearchConcurrency = 4
)

// ReferenceService finds legislation and case law relevant to a case
type ReferenceService struct {
	store      repository.ReferenceStore
	extractor  *keywords.Extractor
	recognizer *citation.Recognizer
	resolver   *ReferenceResolver
	analyzer   Analyzer
	reports    *storage.ReportStore
	logger     *zap.Logger
	metrics    *metrics.Metrics

	lookupTimeout time.Duration
	resultLimit   int
	now           func() time.Time

	// maintenance serializes corpus resets against every read path
	maintenance sync.RWMutex
}

// ReferenceServiceOption is a functional option for ReferenceService
type ReferenceServiceOption func(*ReferenceService)

// WithReferenceStore sets the reference store
func WithReferenceStore(store repository.ReferenceStore) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.store = store
	}
}

// WithKeywordExtractor replaces the default keyword extractor
func WithKeywordExtractor(e *keywords.Extractor) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.extractor = e
	}
}

// WithAnalyzer sets the AI analysis collaborator
func WithAnalyzer(a Analyzer) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.analyzer = a
	}
}

// WithReportStore sets where analysis reports are persisted
func WithReportStore(reports *storage.ReportStore) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.reports = reports
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) ReferenceServiceOption {
	return func(s *ReferenceService) {
		s.metrics = m
	}
}

// WithLookupTimeout bounds each reference store call
func WithLookupTimeout(d time.Duration) ReferenceServiceOption {
	return func(s *ReferenceService) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// WithResultLimit sets the default cap applied to analysis responses. 0 disables it.
func WithResultLimit(n int) ReferenceServiceOption {
	return func(s *ReferenceService) {
		if n >= 0 {
			s.resultLimit = n
		}
	}
}

// NewReferenceService creates a new reference service
func NewReferenceService(opts ...ReferenceServiceOption) *ReferenceService {
	s := &ReferenceService{
		recognizer:    citation.NewRecognizer(),
		logger:        zap.NewNop(),
		metrics:       metrics.NewNop(),
		lookupTimeout: DefaultLookupTimeout,
		resultLimit:   DefaultResultLimit,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = keywords.NewExtractor()
	}
	s.resolver = NewReferenceResolver(s.store,
		ResolverWithLogger(s.logger),
		ResolverWithMetrics(s.metrics),
		ResolverWithLookupTimeout(s.lookupTimeout),
	)
	return s
}

// FindRelevantRequest represents a keyword-driven search for a case
type FindRelevantRequest struct {
	CaseDescription string
	CaseCategory    string
}

// FindRelevantResult represents the keyword search path output
type FindRelevantResult struct {
	Keywords  []string
	Citations models.CitationPayload
	Failures  int
}

// FindRelevant searches the corpus for every keyword of the narrative
func (s *ReferenceService) FindRelevant(ctx context.Context, req FindRelevantRequest) (*FindRelevantResult, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	return s.findRelevant(ctx, req), nil
}

func (s *ReferenceService) findRelevant(ctx context.Context, req FindRelevantRequest) *FindRelevantResult {
	terms := s.extractor.Extract(req.CaseDescription)
	category := models.CaseCategory(req.CaseCategory).StoreLabel()

	statutes := make([][]models.Statute, len(terms))
	decisions := make([][]models.CourtDecision, len(terms))
	var failures atomic.Int64

	// Lookups never return errors to the group, so one failing keyword cannot cancel the rest
	var g errgroup.Group
	g.SetLimit(keywordSearchConcurrency)
	for i, term := range terms {
		g.Go(func() error {
			found, err := s.searchStatutes(ctx, term, category)
			if err != nil {
				s.searchFailed("search_statutes", term, err)
				failures.Add(1)
			} else {
				statutes[i] = found
			}

			// A slow statute lookup must not eat into the decision lookup's budget
			foundDecisions, err := s.searchDecisions(ctx, term)
			if err != nil {
				s.searchFailed("search_decisions", term, err)
				failures.Add(1)
			} else {
				decisions[i] = foundDecisions
			}
			return nil
		})
	}
	_ = g.Wait()

	// Concatenate in keyword order so output does not depend on scheduling
	payload := models.NewCitationPayload()
	seenLaws := make(map[int64]bool)
	for _, list := range statutes {
		for _, statute := range list {
			if seenLaws[statute.ID] {
				continue
			}
			seenLaws[statute.ID] = true
			payload.Laws = append(payload.Laws, models.LawCitation{Statute: statute, Source: models.SourceKeywordSearch})
		}
	}
	seenDecisions := make(map[int64]bool)
	for _, list := range decisions {
		for _, decision := range list {
			if seenDecisions[decision.ID] {
				continue
			}
			seenDecisions[decision.ID] = true
			payload.Decisions = append(payload.Decisions, models.DecisionCitation{CourtDecision: decision, Source: models.SourceKeywordSearch})
		}
	}

	return &FindRelevantResult{
		Keywords:  terms,
		Citations: payload,
		Failures:  int(failures.Load()),
	}
}

func (s *ReferenceService) searchStatutes(ctx context.Context, term, category string) ([]models.Statute, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.store.SearchStatutes(lookupCtx, term, category)
}

func (s *ReferenceService) searchDecisions(ctx context.Context, term string) ([]models.CourtDecision, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	return s.store.SearchDecisions(lookupCtx, term, "")
}

func (s *ReferenceService) searchFailed(op, term string, err error) {
	s.metrics.LookupFailures.WithLabelValues(op).Inc()
	s.logger.Warn("Keyword search failed, treating as empty",
		zap.String("op", op),
		zap.String("keyword", term),
		zap.Error(err))
}

// ResolveAnalysis recognizes and resolves the citations in analysisText
func (s *ReferenceService) ResolveAnalysis(ctx context.Context, analysisText string) (*Resolution, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	res := s.resolver.Resolve(ctx, s.recognizer.Recognize(analysisText))
	return &res, nil
}

// AnalyzeRequest represents a full citation analysis for a case
type AnalyzeRequest struct {
	CaseDescription string
	CaseCategory    string
	// AnalysisText is used as is when set; otherwise the analyzer is asked
	AnalysisText string
	// Limit caps each citation list; 0 uses the service default, negative disables the cap
	Limit int
}

// AnalyzeResult represents the result of an analysis
type AnalyzeResult struct {
	Report *models.AnalysisReport
	// Persisted is false when the report could not be stored
	Persisted bool
}

// Analyze runs the keyword and citation paths and merges their results.
// Store failures mark the report degraded instead of failing the call.
func (s *ReferenceService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	if strings.TrimSpace(req.CaseDescription) == "" {
		return nil, ErrEmptyCaseDescription
	}

	// The model call happens before taking the maintenance lock so a slow
	// analysis does not hold off a reset
	analysisText, source := s.analysisText(ctx, req)

	s.maintenance.RLock()
	found := s.findRelevant(ctx, FindRelevantRequest{
		CaseDescription: req.CaseDescription,
		CaseCategory:    req.CaseCategory,
	})
	resolved := s.resolver.Resolve(ctx, s.recognizer.Recognize(analysisText))
	s.maintenance.RUnlock()

	limit := req.Limit
	if limit == 0 {
		limit = s.resultLimit
	}

	report := &models.AnalysisReport{
		ID:             uuid.New(),
		CaseCategory:   req.CaseCategory,
		Keywords:       found.Keywords,
		AnalysisText:   analysisText,
		AnalysisSource: source,
		Citations:      Merge(found.Citations, resolved.Citations).Truncate(limit),
		Degraded:       found.Failures+resolved.Failures > 0,
		CreatedAt:      s.now().UTC(),
	}

	outcome := "ok"
	if report.Degraded {
		outcome = "degraded"
	}
	s.metrics.Analyses.WithLabelValues(outcome).Inc()

	result := &AnalyzeResult{Report: report}
	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			s.logger.Error("Failed to persist analysis report",
				zap.String("analysis_id", report.ID.String()),
				zap.Error(err))
		} else {
			result.Persisted = true
		}
	}

	s.logger.Info("Case analyzed",
		zap.String("analysis_id", report.ID.String()),
		zap.String("category", req.CaseCategory),
		zap.Int("laws", len(report.Citations.Laws)),
		zap.Int("decisions", len(report.Citations.Decisions)),
		zap.Bool("degraded", report.Degraded))

	return result, nil
}

// analysisText picks the caller's text or asks the analyzer; analyzer failures yield ""
func (s *ReferenceService) analysisText(ctx context.Context, req AnalyzeRequest) (string, models.AnalysisSource) {
	if strings.TrimSpace(req.AnalysisText) != "" {
		return req.AnalysisText, models.AnalysisFromRequest
	}
	if s.analyzer == nil {
		s.metrics.AnalyzerCalls.WithLabelValues("skipped").Inc()
		return "", models.AnalysisUnavailable
	}

	text, err := s.analyzer.Analyze(ctx, req.CaseDescription, models.CaseCategory(req.CaseCategory))
	if err != nil {
		s.metrics.AnalyzerCalls.WithLabelValues("error").Inc()
		s.logger.Warn("AI analysis unavailable, continuing with keyword results only", zap.Error(err))
		return "", models.AnalysisUnavailable
	}
	s.metrics.AnalyzerCalls.WithLabelValues("success").Inc()
	return text, models.AnalysisFromModel
}

// GetReport loads a stored analysis report
func (s *ReferenceService) GetReport(ctx context.Context, id uuid.UUID) (*models.AnalysisReport, error) {
	if s.reports == nil {
		return nil, ErrReportsNotConfigured
	}

	report, err := s.reports.Load(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// DeleteReport removes a stored analysis report; unknown ids are not an error
func (s *ReferenceService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if s.reports == nil {
		return ErrReportsNotConfigured
	}

	if err := s.reports.Delete(ctx, id); err != nil {
		s.logger.Error("Report delete failed", zap.String("report_id", id.String()), zap.Error(err))
		return err
	}

	s.logger.Info("Report deleted", zap.String("report_id", id.String()))
	return nil
}

// ResetCorpus drops and recreates the corpus tables. It waits for in-flight
// reads and blocks new ones until done.
func (s *ReferenceService) ResetCorpus(ctx context.Context) error {
	if s.store == nil {
		return ErrStoreNotConfigured
	}

	s.maintenance.Lock()
	defer s.maintenance.Unlock()

	if err := s.store.ResetAll(ctx); err != nil {
		s.logger.Error("Corpus reset failed", zap.Error(err))
		return fmt.Errorf("failed to reset corpus: %w", err)
	}

	s.metrics.CorpusResets.Inc()
	s.logger.Warn("Corpus reset completed")
	return nil
}

// SearchStatutes searches statutes; category may be a case category tag or a stored label
func (s *ReferenceService) SearchStatutes(ctx context.Context, query, category string) ([]models.Statute, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	statutes, err := s.store.SearchStatutes(ctx, query, models.CaseCategory(category).StoreLabel())
	if err != nil {
		return nil, fmt.Errorf("failed to search statutes: %w", err)
	}
	return statutes, nil
}

// SearchDecisions searches court decisions, optionally within one chamber
func (s *ReferenceService) SearchDecisions(ctx context.Context, query, chamber string) ([]models.CourtDecision, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	decisions, err := s.store.SearchDecisions(ctx, query, chamber)
	if err != nil {
		return nil, fmt.Errorf("failed to search decisions: %w", err)
	}
	return decisions, nil
}

// SearchArticles searches article text, optionally within one statute
func (s *ReferenceService) SearchArticles(ctx context.Context, statuteID int64, query string) ([]models.ArticleMatch, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	articles, err := s.store.SearchArticles(ctx, statuteID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	return articles, nil
}

// GetStatute returns a statute with all of its articles
func (s *ReferenceService) GetStatute(ctx context.Context, id int64) (*models.Statute, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	statute, err := s.store.GetStatuteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatuteNotFound
		}
		return nil, fmt.Errorf("failed to get statute: %w", err)
	}
	return statute, nil
}

// GetDecision returns a full court decision
func (s *ReferenceService) GetDecision(ctx context.Context, id int64) (*models.CourtDecision, error) {
	if s.store == nil {
		return nil, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	decision, err := s.store.GetDecisionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDecisionNotFound
		}
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	return decision, nil
}

// Stats returns corpus record counts
func (s *ReferenceService) Stats(ctx context.Context) (models.CorpusStats, error) {
	if s.store == nil {
		return models.CorpusStats{}, ErrStoreNotConfigured
	}

	s.maintenance.RLock()
	defer s.maintenance.RUnlock()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.CorpusStats{}, fmt.Errorf("failed to read corpus stats: %w", err)
	}
	return stats, nil
}
