package models

// CitationSource records which retrieval path surfaced a citation
type CitationSource string

const (
	SourceKeywordSearch CitationSource = "keyword_search"
	SourceAnalysisText  CitationSource = "analysis_text"
)

// LawCitation is a statute-shaped citation, optionally carrying the article
// that was cited in the analysis text
type LawCitation struct {
	Statute
	MatchedArticle *StatuteArticle `json:"matched_article,omitempty"`
	Source         CitationSource  `json:"source"`
}

// IdentityKey returns the key used to deduplicate store-backed statutes
func (c LawCitation) IdentityKey() int64 {
	return c.ID
}

// DecisionCitation is a court-decision-shaped citation
type DecisionCitation struct {
	CourtDecision
	Source CitationSource `json:"source"`
}

// IdentityKey returns the key used to deduplicate store-backed decisions
func (c DecisionCitation) IdentityKey() int64 {
	return c.ID
}

// CitationPayload is the structured citation set handed to document assembly
type CitationPayload struct {
	Laws      []LawCitation      `json:"laws"`
	Decisions []DecisionCitation `json:"decisions"`
}

// NewCitationPayload returns a payload with non-nil slices so it always
// serializes as empty arrays
func NewCitationPayload() CitationPayload {
	return CitationPayload{
		Laws:      make([]LawCitation, 0),
		Decisions: make([]DecisionCitation, 0),
	}
}

// Truncate caps both lists at limit entries. A limit <= 0 leaves the payload as is.
func (p CitationPayload) Truncate(limit int) CitationPayload {
	if limit <= 0 {
		return p
	}
	if len(p.Laws) > limit {
		p.Laws = p.Laws[:limit]
	}
	if len(p.Decisions) > limit {
		p.Decisions = p.Decisions[:limit]
	}
	return p
}
