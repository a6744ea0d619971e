package repository

// Column lists shared by both dialects. Nullable text columns are coalesced so
// scans never see NULL.
const (
	statuteColumns = `id, COALESCE(law_no, ''), name, COALESCE(category, ''), COALESCE(content, ''),
			COALESCE(publication_date, ''), COALESCE(last_updated, '')`
	articleColumns  = `id, law_id, COALESCE(article_no, ''), COALESCE(content, '')`
	matchColumns    = `la.id, la.law_id, COALESCE(la.article_no, ''), COALESCE(la.content, ''),
			l.name, COALESCE(l.law_no, '')`
	decisionColumns = `id, COALESCE(decision_no, ''), COALESCE(decision_date, ''), COALESCE(chamber, ''),
			COALESCE(subject, ''), COALESCE(content, ''), COALESCE(keywords, '')`
)

// dropStatements removes the tables children first
var dropStatements = []string{
	`DROP TABLE IF EXISTS law_articles`,
	`DROP TABLE IF EXISTS court_decisions`,
	`DROP TABLE IF EXISTS laws`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS laws (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		law_no TEXT,
		name TEXT NOT NULL,
		category TEXT,
		content TEXT,
		publication_date TEXT,
		last_updated TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS law_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		law_id INTEGER NOT NULL REFERENCES laws(id) ON DELETE CASCADE,
		article_no TEXT,
		content TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS court_decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		decision_no TEXT,
		decision_date TEXT,
		chamber TEXT,
		subject TEXT,
		content TEXT,
		keywords TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_laws_law_no ON laws(law_no)`,
	`CREATE INDEX IF NOT EXISTS idx_law_articles_law ON law_articles(law_id, article_no)`,
	`CREATE INDEX IF NOT EXISTS idx_court_decisions_no ON court_decisions(decision_no)`,
}

var postgresSchema = []string{
	// Turkish case folding for the Turkish alphabet; lower() handles the rest
	`CREATE OR REPLACE FUNCTION trlower(t text) RETURNS text
		LANGUAGE sql IMMUTABLE PARALLEL SAFE
		AS $$ SELECT lower(translate(t, 'İIŞĞÜÖÇÂÎÛ', 'iışğüöçâîû')) $$`,
	`CREATE TABLE IF NOT EXISTS laws (
		id BIGSERIAL PRIMARY KEY,
		law_no TEXT,
		name TEXT NOT NULL,
		category TEXT,
		content TEXT,
		publication_date TEXT,
		last_updated TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS law_articles (
		id BIGSERIAL PRIMARY KEY,
		law_id BIGINT NOT NULL REFERENCES laws(id) ON DELETE CASCADE,
		article_no TEXT,
		content TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS court_decisions (
		id BIGSERIAL PRIMARY KEY,
		decision_no TEXT,
		decision_date TEXT,
		chamber TEXT,
		subject TEXT,
		content TEXT,
		keywords TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_laws_law_no ON laws(law_no)`,
	`CREATE INDEX IF NOT EXISTS idx_law_articles_law ON law_articles(law_id, article_no)`,
	`CREATE INDEX IF NOT EXISTS idx_court_decisions_no ON court_decisions(decision_no)`,
}
