// Package citation finds statute and court-decision citations in free Turkish text.
// Recognition is pure: nothing here touches the reference store.
package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Abbreviations lists the statute codes the recognizer looks for
var Abbreviations = []string{"TMK", "TBK", "TCK", "İK", "HMK", "TTK", "TKHK", "İYUK", "HUMK", "İİK"}

// Go's \b only knows ASCII word characters, so the left boundary is spelled out
var (
	statutePattern = regexp.MustCompile(
		`(?:^|[^\p{L}\p{N}_])(` + strings.Join(Abbreviations, "|") + `)\s+(\d+)`,
	)
	decisionPattern = regexp.MustCompile(
		`Yargıtay\s+(\d+)\.\s*(Hukuk|Ceza)\s+Dairesi[^\d]*?(\d{4})\s*[/-]\s*(\d+)`,
	)
)

// StatuteCitation is one "ABBREV article" occurrence
type StatuteCitation struct {
	Abbreviation  string
	ArticleNumber string
}

// DecisionCitation is one Court of Cassation decision reference
type DecisionCitation struct {
	Chamber string // "Yargıtay 2. Hukuk Dairesi"
	Year    string
	Number  string
}

// Key returns the decision identity key, "{year}/{number}"
func (d DecisionCitation) Key() string {
	return d.Year + "/" + d.Number
}

// Recognition holds every statute citation in order of appearance and the
// distinct decision citations in first-seen order
type Recognition struct {
	Statutes  []StatuteCitation
	Decisions []DecisionCitation
}

// Empty reports whether nothing was recognized
func (r Recognition) Empty() bool {
	return len(r.Statutes) == 0 && len(r.Decisions) == 0
}

// Recognizer extracts citations from analysis text
type Recognizer struct {
	statutes  *regexp.Regexp
	decisions *regexp.Regexp
}

// NewRecognizer creates a recognizer with the built-in patterns
func NewRecognizer() *Recognizer {
	return &Recognizer{
		statutes:  statutePattern,
		decisions: decisionPattern,
	}
}

// Recognize scans text for citations. Text without citations yields an empty Recognition.
func (r *Recognizer) Recognize(text string) Recognition {
	result := Recognition{
		Statutes:  make([]StatuteCitation, 0),
		Decisions: make([]DecisionCitation, 0),
	}
	if text == "" {
		return result
	}

	for _, m := range r.statutes.FindAllStringSubmatch(text, -1) {
		article, ok := normalizeNumber(m[2])
		if !ok {
			continue
		}
		result.Statutes = append(result.Statutes, StatuteCitation{
			Abbreviation:  m[1],
			ArticleNumber: article,
		})
	}

	seen := make(map[string]struct{})
	for _, m := range r.decisions.FindAllStringSubmatch(text, -1) {
		number, ok := normalizeNumber(m[4])
		if !ok {
			continue
		}
		d := DecisionCitation{
			Chamber: fmt.Sprintf("Yargıtay %s. %s Dairesi", m[1], m[2]),
			Year:    m[3],
			Number:  number,
		}
		if _, dup := seen[d.Key()]; dup {
			continue
		}
		seen[d.Key()] = struct{}{}
		result.Decisions = append(result.Decisions, d)
	}

	return result
}

// normalizeNumber rejects digit runs that do not parse as an int
func normalizeNumber(digits string) (string, bool) {
	if _, err := strconv.Atoi(digits); err != nil {
		return "", false
	}
	return digits, true
}
