package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisSource tells where the analysis text of a report came from
type AnalysisSource string

const (
	AnalysisFromRequest AnalysisSource = "request"
	AnalysisFromModel   AnalysisSource = "model"
	AnalysisUnavailable AnalysisSource = "none"
)

// AnalysisReport represents a stored citation analysis for one case
type AnalysisReport struct {
	ID             uuid.UUID       `json:"id"`
	CaseCategory   string          `json:"case_category"`
	Keywords       []string        `json:"keywords"`
	AnalysisText   string          `json:"analysis_text,omitempty"`
	AnalysisSource AnalysisSource  `json:"analysis_source"`
	Citations      CitationPayload `json:"citations"`
	Degraded       bool            `json:"degraded"`
	CreatedAt      time.Time       `json:"created_at"`
}
