package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hukukai-backend/models"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqlitePragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// SQLiteReferenceStore is the file-backed reference store
type SQLiteReferenceStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteReferenceStore opens (or creates) the database at path and initializes the schema
func NewSQLiteReferenceStore(ctx context.Context, path string) (*SQLiteReferenceStore, error) {
	if path == "" {
		return nil, storageErr("open", errors.New("sqlite path is required"))
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageErr("open", fmt.Errorf("failed to create data directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, storageErr("open", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storageErr("open", err)
	}

	s := &SQLiteReferenceStore{db: db, path: path}
	if err := s.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path
func (s *SQLiteReferenceStore) Path() string {
	return s.path
}

func (s *SQLiteReferenceStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteReferenceStore) InitSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return storageErr("init schema", err)
		}
	}
	return nil
}

func (s *SQLiteReferenceStore) ResetAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("reset", err)
	}
	defer tx.Rollback()

	statements := append(append([]string{}, dropStatements...), sqliteSchema...)
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return storageErr("reset", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("reset", err)
	}
	return nil
}

func (s *SQLiteReferenceStore) SearchStatutes(ctx context.Context, query, category string) ([]models.Statute, error) {
	pattern := foldedPattern(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+statuteColumns+`
		FROM laws
		WHERE (trlower(name) LIKE ? ESCAPE '\' OR trlower(content) LIKE ? ESCAPE '\')
		  AND (? = '' OR category = ?)
		ORDER BY id
		LIMIT ?
	`, pattern, pattern, category, category, searchLimit)
	if err != nil {
		return nil, storageErr("search statutes", err)
	}
	defer rows.Close()

	statutes := make([]models.Statute, 0)
	for rows.Next() {
		statute, err := scanStatute(rows)
		if err != nil {
			return nil, storageErr("search statutes", err)
		}
		statute.Content = truncateContent(statute.Content)
		statutes = append(statutes, *statute)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search statutes", err)
	}

	return statutes, nil
}

func (s *SQLiteReferenceStore) SearchDecisions(ctx context.Context, query, chamber string) ([]models.CourtDecision, error) {
	pattern := foldedPattern(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE (trlower(subject) LIKE ? ESCAPE '\' OR trlower(content) LIKE ? ESCAPE '\' OR trlower(keywords) LIKE ? ESCAPE '\')
		  AND (? = '' OR chamber = ?)
		ORDER BY decision_date DESC, id
		LIMIT ?
	`, pattern, pattern, pattern, chamber, chamber, searchLimit)
	if err != nil {
		return nil, storageErr("search decisions", err)
	}
	defer rows.Close()

	decisions := make([]models.CourtDecision, 0)
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, storageErr("search decisions", err)
		}
		decision.Content = truncateContent(decision.Content)
		decisions = append(decisions, *decision)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search decisions", err)
	}

	return decisions, nil
}

func (s *SQLiteReferenceStore) SearchArticles(ctx context.Context, statuteID int64, query string) ([]models.ArticleMatch, error) {
	matches := make([]models.ArticleMatch, 0)
	if statuteID == 0 && query == "" {
		return matches, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+matchColumns+`
		FROM law_articles la
		JOIN laws l ON la.law_id = l.id
		WHERE (? = 0 OR la.law_id = ?)
		  AND (? = '' OR trlower(la.content) LIKE ? ESCAPE '\')
		ORDER BY la.law_id, la.article_no, la.id
		LIMIT ?
	`, statuteID, statuteID, query, foldedPattern(query), articleSearchLimit)
	if err != nil {
		return nil, storageErr("search articles", err)
	}
	defer rows.Close()

	for rows.Next() {
		match, err := scanArticleMatch(rows)
		if err != nil {
			return nil, storageErr("search articles", err)
		}
		match.Content = truncateContent(match.Content)
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search articles", err)
	}

	return matches, nil
}

func (s *SQLiteReferenceStore) GetStatuteByNumber(ctx context.Context, statuteNumber string) (*models.Statute, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+statuteColumns+`
		FROM laws
		WHERE law_no = ?
		ORDER BY id
		LIMIT 1
	`, statuteNumber)

	statute, err := scanStatute(row)
	if err != nil {
		return nil, sqliteLookupErr("get statute by number", err)
	}
	return statute, nil
}

func (s *SQLiteReferenceStore) GetStatuteByID(ctx context.Context, id int64) (*models.Statute, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+statuteColumns+` FROM laws WHERE id = ?`, id)
	statute, err := scanStatute(row)
	if err != nil {
		return nil, sqliteLookupErr("get statute", err)
	}

	// Article numbers are text, so "10" sorts before "2"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM law_articles
		WHERE law_id = ?
		ORDER BY article_no, id
	`, id)
	if err != nil {
		return nil, storageErr("get statute articles", err)
	}
	defer rows.Close()

	statute.Articles = make([]models.StatuteArticle, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, storageErr("get statute articles", err)
		}
		statute.Articles = append(statute.Articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("get statute articles", err)
	}

	return statute, nil
}

func (s *SQLiteReferenceStore) GetArticle(ctx context.Context, statuteID int64, articleNumber string) (*models.StatuteArticle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM law_articles
		WHERE law_id = ? AND article_no = ?
		ORDER BY id
		LIMIT 1
	`, statuteID, articleNumber)

	article, err := scanArticle(row)
	if err != nil {
		return nil, sqliteLookupErr("get article", err)
	}
	return article, nil
}

func (s *SQLiteReferenceStore) GetDecisionByID(ctx context.Context, id int64) (*models.CourtDecision, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+decisionColumns+` FROM court_decisions WHERE id = ?`, id)
	decision, err := scanDecision(row)
	if err != nil {
		return nil, sqliteLookupErr("get decision", err)
	}
	return decision, nil
}

func (s *SQLiteReferenceStore) FindDecision(ctx context.Context, decisionNumber, chamber string) (*models.CourtDecision, error) {
	core := chamberCore(chamber)

	if core != "" {
		row := s.db.QueryRowContext(ctx, `
			SELECT `+decisionColumns+`
			FROM court_decisions
			WHERE decision_no = ? AND chamber IN (?, ?)
			ORDER BY id
			LIMIT 1
		`, decisionNumber, core, courtPrefix+core)
		decision, err := scanDecision(row)
		if err == nil {
			return decision, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, storageErr("find decision", err)
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE decision_no = ?
		ORDER BY id
		LIMIT 1
	`, decisionNumber)
	decision, err := scanDecision(row)
	if err == nil {
		return decision, nil
	}
	if !errors.Is(err, sql.ErrNoRows) || core == "" {
		return nil, sqliteLookupErr("find decision", err)
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE trlower(chamber) LIKE ? ESCAPE '\' AND trlower(decision_no) LIKE ? ESCAPE '\'
		ORDER BY id
		LIMIT 1
	`, foldedPattern(core), foldedPattern(decisionNumber))
	decision, err = scanDecision(row)
	if err != nil {
		return nil, sqliteLookupErr("find decision", err)
	}
	return decision, nil
}

func (s *SQLiteReferenceStore) InsertStatute(ctx context.Context, statute *models.Statute) error {
	if err := validateStatute(statute); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO laws (law_no, name, category, content, publication_date, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		statute.StatuteNumber,
		statute.Name,
		statute.Category,
		statute.Content,
		statute.PublicationDate,
		statute.LastUpdated,
	)
	if err != nil {
		return storageErr("insert statute", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageErr("insert statute", err)
	}
	statute.ID = id
	return nil
}

func (s *SQLiteReferenceStore) InsertArticle(ctx context.Context, article *models.StatuteArticle) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidRecord)
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM laws WHERE id = ?`, article.StatuteID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: statute %d does not exist", ErrInvalidRecord, article.StatuteID)
	}
	if err != nil {
		return storageErr("insert article", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO law_articles (law_id, article_no, content)
		VALUES (?, ?, ?)
	`, article.StatuteID, article.ArticleNumber, article.Content)
	if err != nil {
		return storageErr("insert article", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return storageErr("insert article", err)
	}
	article.ID = id
	return nil
}

func (s *SQLiteReferenceStore) InsertDecision(ctx context.Context, decision *models.CourtDecision) (bool, error) {
	if decision == nil {
		return false, fmt.Errorf("%w: decision is nil", ErrInvalidRecord)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("insert decision", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM court_decisions WHERE decision_no = ? AND chamber = ? LIMIT 1
	`, decision.DecisionNumber, decision.Chamber).Scan(&existingID)
	if err == nil {
		decision.ID = existingID
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, storageErr("insert decision", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO court_decisions (decision_no, decision_date, chamber, subject, content, keywords)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		decision.DecisionNumber,
		decision.DecisionDate,
		decision.Chamber,
		decision.Subject,
		decision.Content,
		decision.Keywords,
	)
	if err != nil {
		return false, storageErr("insert decision", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, storageErr("insert decision", err)
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("insert decision", err)
	}
	decision.ID = id
	return true, nil
}

func (s *SQLiteReferenceStore) Stats(ctx context.Context) (models.CorpusStats, error) {
	var stats models.CorpusStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM laws),
			(SELECT COUNT(*) FROM law_articles),
			(SELECT COUNT(*) FROM court_decisions)
	`).Scan(&stats.Statutes, &stats.Articles, &stats.Decisions)
	if err != nil {
		return models.CorpusStats{}, storageErr("stats", err)
	}
	return stats, nil
}

func sqliteLookupErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return storageErr(op, err)
}
