package models

// CourtDecision represents one judicial decision record
type CourtDecision struct {
	ID             int64  `json:"id"`
	DecisionNumber string `json:"decision_number"` // "YYYY/NNN"
	DecisionDate   string `json:"decision_date"`
	Chamber        string `json:"chamber"` // e.g. "Yargıtay 9. Hukuk Dairesi"
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	Keywords       string `json:"keywords"` // comma-joined
}

// CorpusStats holds row counts of the reference corpus
type CorpusStats struct {
	Statutes  int64 `json:"statutes"`
	Articles  int64 `json:"articles"`
	Decisions int64 `json:"decisions"`
}
