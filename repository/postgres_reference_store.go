package repository

import (
	"context"
	"errors"
	"fmt"

	"hukukai-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReferenceStore is the reference store backed by a shared Postgres pool
type PostgresReferenceStore struct {
	db *pgxpool.Pool
}

// NewPostgresReferenceStore connects to Postgres and initializes the schema
func NewPostgresReferenceStore(ctx context.Context, url string, maxConns int32) (*PostgresReferenceStore, error) {
	if url == "" {
		return nil, storageErr("open", errors.New("database url is required"))
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, storageErr("open", fmt.Errorf("failed to parse database url: %w", err))
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, storageErr("open", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageErr("open", err)
	}

	s := NewPostgresReferenceStoreFromPool(pool)
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// NewPostgresReferenceStoreFromPool wraps an existing pool. The caller owns schema setup.
func NewPostgresReferenceStoreFromPool(db *pgxpool.Pool) *PostgresReferenceStore {
	return &PostgresReferenceStore{db: db}
}

func (r *PostgresReferenceStore) Close() error {
	r.db.Close()
	return nil
}

func (r *PostgresReferenceStore) InitSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return storageErr("init schema", err)
		}
	}
	return nil
}

func (r *PostgresReferenceStore) ResetAll(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr("reset", err)
	}
	defer tx.Rollback(ctx)

	statements := append(append([]string{}, dropStatements...), postgresSchema...)
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return storageErr("reset", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("reset", err)
	}
	return nil
}

func (r *PostgresReferenceStore) SearchStatutes(ctx context.Context, query, category string) ([]models.Statute, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+statuteColumns+`
		FROM laws
		WHERE (trlower(name) LIKE $1 OR trlower(content) LIKE $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY id
		LIMIT $3
	`, foldedPattern(query), category, searchLimit)
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

func (r *PostgresReferenceStore) SearchDecisions(ctx context.Context, query, chamber string) ([]models.CourtDecision, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE (trlower(subject) LIKE $1 OR trlower(content) LIKE $1 OR trlower(keywords) LIKE $1)
		  AND ($2 = '' OR chamber = $2)
		ORDER BY decision_date DESC, id
		LIMIT $3
	`, foldedPattern(query), chamber, searchLimit)
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

func (r *PostgresReferenceStore) SearchArticles(ctx context.Context, statuteID int64, query string) ([]models.ArticleMatch, error) {
	matches := make([]models.ArticleMatch, 0)
	if statuteID == 0 && query == "" {
		return matches, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+matchColumns+`
		FROM law_articles la
		JOIN laws l ON la.law_id = l.id
		WHERE ($1::bigint = 0 OR la.law_id = $1)
		  AND ($2::text = '' OR trlower(la.content) LIKE $3)
		ORDER BY la.law_id, la.article_no COLLATE "C", la.id
		LIMIT $4
	`, statuteID, query, foldedPattern(query), articleSearchLimit)
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

func (r *PostgresReferenceStore) GetStatuteByNumber(ctx context.Context, statuteNumber string) (*models.Statute, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+statuteColumns+`
		FROM laws
		WHERE law_no = $1
		ORDER BY id
		LIMIT 1
	`, statuteNumber)

	statute, err := scanStatute(row)
	if err != nil {
		return nil, pgLookupErr("get statute by number", err)
	}
	return statute, nil
}

func (r *PostgresReferenceStore) GetStatuteByID(ctx context.Context, id int64) (*models.Statute, error) {
	statute, err := scanStatute(r.db.QueryRow(ctx, `SELECT `+statuteColumns+` FROM laws WHERE id = $1`, id))
	if err != nil {
		return nil, pgLookupErr("get statute", err)
	}

	// Byte-wise collation keeps text ordering identical to SQLite
	rows, err := r.db.Query(ctx, `
		SELECT `+articleColumns+`
		FROM law_articles
		WHERE law_id = $1
		ORDER BY article_no COLLATE "C", id
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

func (r *PostgresReferenceStore) GetArticle(ctx context.Context, statuteID int64, articleNumber string) (*models.StatuteArticle, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM law_articles
		WHERE law_id = $1 AND article_no = $2
		ORDER BY id
		LIMIT 1
	`, statuteID, articleNumber)

	article, err := scanArticle(row)
	if err != nil {
		return nil, pgLookupErr("get article", err)
	}
	return article, nil
}

func (r *PostgresReferenceStore) GetDecisionByID(ctx context.Context, id int64) (*models.CourtDecision, error) {
	decision, err := scanDecision(r.db.QueryRow(ctx, `SELECT `+decisionColumns+` FROM court_decisions WHERE id = $1`, id))
	if err != nil {
		return nil, pgLookupErr("get decision", err)
	}
	return decision, nil
}

func (r *PostgresReferenceStore) FindDecision(ctx context.Context, decisionNumber, chamber string) (*models.CourtDecision, error) {
	core := chamberCore(chamber)

	if core != "" {
		decision, err := scanDecision(r.db.QueryRow(ctx, `
			SELECT `+decisionColumns+`
			FROM court_decisions
			WHERE decision_no = $1 AND chamber IN ($2, $3)
			ORDER BY id
			LIMIT 1
		`, decisionNumber, core, courtPrefix+core))
		if err == nil {
			return decision, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, storageErr("find decision", err)
		}
	}

	decision, err := scanDecision(r.db.QueryRow(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE decision_no = $1
		ORDER BY id
		LIMIT 1
	`, decisionNumber))
	if err == nil {
		return decision, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || core == "" {
		return nil, pgLookupErr("find decision", err)
	}

	decision, err = scanDecision(r.db.QueryRow(ctx, `
		SELECT `+decisionColumns+`
		FROM court_decisions
		WHERE trlower(chamber) LIKE $1 AND trlower(decision_no) LIKE $2
		ORDER BY id
		LIMIT 1
	`, foldedPattern(core), foldedPattern(decisionNumber)))
	if err != nil {
		return nil, pgLookupErr("find decision", err)
	}
	return decision, nil
}

func (r *PostgresReferenceStore) InsertStatute(ctx context.Context, statute *models.Statute) error {
	if err := validateStatute(statute); err != nil {
		return err
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO laws (law_no, name, category, content, publication_date, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		statute.StatuteNumber,
		statute.Name,
		statute.Category,
		statute.Content,
		statute.PublicationDate,
		statute.LastUpdated,
	).Scan(&statute.ID)
	if err != nil {
		return storageErr("insert statute", err)
	}
	return nil
}

func (r *PostgresReferenceStore) InsertArticle(ctx context.Context, article *models.StatuteArticle) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidRecord)
	}

	var exists int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM laws WHERE id = $1`, article.StatuteID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: statute %d does not exist", ErrInvalidRecord, article.StatuteID)
	}
	if err != nil {
		return storageErr("insert article", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO law_articles (law_id, article_no, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`, article.StatuteID, article.ArticleNumber, article.Content).Scan(&article.ID)
	if err != nil {
		return storageErr("insert article", err)
	}
	return nil
}

func (r *PostgresReferenceStore) InsertDecision(ctx context.Context, decision *models.CourtDecision) (bool, error) {
	if decision == nil {
		return false, fmt.Errorf("%w: decision is nil", ErrInvalidRecord)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, storageErr("insert decision", err)
	}
	defer tx.Rollback(ctx)

	var existingID int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM court_decisions WHERE decision_no = $1 AND chamber = $2 LIMIT 1
	`, decision.DecisionNumber, decision.Chamber).Scan(&existingID)
	if err == nil {
		decision.ID = existingID
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, storageErr("insert decision", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO court_decisions (decision_no, decision_date, chamber, subject, content, keywords)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		decision.DecisionNumber,
		decision.DecisionDate,
		decision.Chamber,
		decision.Subject,
		decision.Content,
		decision.Keywords,
	).Scan(&id)
	if err != nil {
		return false, storageErr("insert decision", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storageErr("insert decision", err)
	}
	decision.ID = id
	return true, nil
}

func (r *PostgresReferenceStore) Stats(ctx context.Context) (models.CorpusStats, error) {
	var stats models.CorpusStats
	err := r.db.QueryRow(ctx, `
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

func pgLookupErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return storageErr(op, err)
}
