package service

import "hukukai-backend/models"

// Merge combines keyword-search results with citation-resolved results.
// Search results come first; a record surfaced by both paths is kept once,
// in its search position. No cap is applied.
func Merge(search, resolved models.CitationPayload) models.CitationPayload {
	merged := models.NewCitationPayload()

	seenLaws := make(map[int64]bool)
	for _, list := range [][]models.LawCitation{search.Laws, resolved.Laws} {
		for _, law := range list {
			if seenLaws[law.IdentityKey()] {
				continue
			}
			seenLaws[law.IdentityKey()] = true
			merged.Laws = append(merged.Laws, law)
		}
	}

	seenDecisions := make(map[int64]bool)
	for _, list := range [][]models.DecisionCitation{search.Decisions, resolved.Decisions} {
		for _, decision := range list {
			if seenDecisions[decision.IdentityKey()] {
				continue
			}
			seenDecisions[decision.IdentityKey()] = true
			merged.Decisions = append(merged.Decisions, decision)
		}
	}

	return merged
}
