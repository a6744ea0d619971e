package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hukukai-backend/models"
)

const (
	// searchLimit caps the rows returned by list searches
	searchLimit = 20
	// articleSearchLimit caps article searches
	articleSearchLimit = 50
	// contentPreviewRunes is the length list searches truncate content to
	contentPreviewRunes = 500
	ellipsis            = "..."

	courtPrefix = "Yargıtay "
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
)

// StorageError reports that the reference store could not complete an operation
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("reference store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is, or wraps, a *StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ReferenceStore persists statutes, their articles and court decisions.
//
// Optional filters (category, chamber) are disabled by passing "". Lookups of a
// single record return ErrNotFound when nothing matches; every other failure is
// a *StorageError.
type ReferenceStore interface {
	// InitSchema creates the tables if they are missing
	InitSchema(ctx context.Context) error
	// ResetAll drops and recreates every table in one transaction
	ResetAll(ctx context.Context) error

	SearchStatutes(ctx context.Context, query, category string) ([]models.Statute, error)
	SearchDecisions(ctx context.Context, query, chamber string) ([]models.CourtDecision, error)
	// SearchArticles matches article content within one statute (statuteID 0 means any).
	// With neither a statute nor a query it returns no rows.
	SearchArticles(ctx context.Context, statuteID int64, query string) ([]models.ArticleMatch, error)

	GetStatuteByNumber(ctx context.Context, statuteNumber string) (*models.Statute, error)
	GetStatuteByID(ctx context.Context, id int64) (*models.Statute, error)
	GetArticle(ctx context.Context, statuteID int64, articleNumber string) (*models.StatuteArticle, error)
	GetDecisionByID(ctx context.Context, id int64) (*models.CourtDecision, error)
	// FindDecision resolves a cited decision: exact number within the chamber,
	// then exact number, then a fuzzy match on chamber and number
	FindDecision(ctx context.Context, decisionNumber, chamber string) (*models.CourtDecision, error)

	InsertStatute(ctx context.Context, statute *models.Statute) error
	InsertArticle(ctx context.Context, article *models.StatuteArticle) error
	// InsertDecision skips records whose (decision number, chamber) pair already
	// exists and reports whether a row was written
	InsertDecision(ctx context.Context, decision *models.CourtDecision) (bool, error)

	Stats(ctx context.Context) (models.CorpusStats, error)
	Close() error
}

// StoreDriver selects the reference store backend
type StoreDriver string

const (
	DriverSQLite   StoreDriver = "sqlite"
	DriverPostgres StoreDriver = "postgres"
)

// StoreConfig holds configuration for opening a reference store
type StoreConfig struct {
	Driver      StoreDriver
	SQLitePath  string // For sqlite
	DatabaseURL string // For postgres
	MaxConns    int32  // For postgres
}

// NewReferenceStore opens the configured backend and makes sure the schema exists
func NewReferenceStore(ctx context.Context, cfg StoreConfig) (ReferenceStore, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return NewSQLiteReferenceStore(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgresReferenceStore(ctx, cfg.DatabaseURL, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unknown reference store driver: %s", cfg.Driver)
	}
}

// truncateContent shortens list-view content to contentPreviewRunes runes
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= contentPreviewRunes {
		return content
	}
	return string(runes[:contentPreviewRunes]) + ellipsis
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with wildcards in s escaped
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// chamberCore strips the court name so "Yargıtay 2. Hukuk Dairesi" and
// "2. Hukuk Dairesi" match the same stored chamber
func chamberCore(chamber string) string {
	chamber = strings.TrimSpace(chamber)
	chamber = strings.TrimPrefix(chamber, strings.TrimSpace(courtPrefix))
	return strings.TrimSpace(chamber)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatute(row rowScanner) (*models.Statute, error) {
	statute := &models.Statute{}
	err := row.Scan(
		&statute.ID,
		&statute.StatuteNumber,
		&statute.Name,
		&statute.Category,
		&statute.Content,
		&statute.PublicationDate,
		&statute.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return statute, nil
}

func scanArticle(row rowScanner) (*models.StatuteArticle, error) {
	article := &models.StatuteArticle{}
	err := row.Scan(
		&article.ID,
		&article.StatuteID,
		&article.ArticleNumber,
		&article.Content,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

func scanDecision(row rowScanner) (*models.CourtDecision, error) {
	decision := &models.CourtDecision{}
	err := row.Scan(
		&decision.ID,
		&decision.DecisionNumber,
		&decision.DecisionDate,
		&decision.Chamber,
		&decision.Subject,
		&decision.Content,
		&decision.Keywords,
	)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

func scanArticleMatch(row rowScanner) (*models.ArticleMatch, error) {
	match := &models.ArticleMatch{}
	err := row.Scan(
		&match.ID,
		&match.StatuteID,
		&match.ArticleNumber,
		&match.Content,
		&match.StatuteName,
		&match.StatuteNumber,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func validateStatute(statute *models.Statute) error {
	if statute == nil || strings.TrimSpace(statute.Name) == "" {
		return fmt.Errorf("%w: statute name is required", ErrInvalidRecord)
	}
	return nil
}
