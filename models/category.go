package models

// CaseCategory is the legal-domain tag supplied with a case narrative
type CaseCategory string

const (
	CategoryFamily         CaseCategory = "aile_hukuku"
	CategoryObligations    CaseCategory = "borçlar_hukuku"
	CategoryLabor          CaseCategory = "iş_hukuku"
	CategoryCriminal       CaseCategory = "ceza_hukuku"
	CategoryCommercial     CaseCategory = "ticaret_hukuku"
	CategoryAdministrative CaseCategory = "idare_hukuku"
	CategoryConsumer       CaseCategory = "tüketici_hukuku"
)

var categoryLabels = map[CaseCategory]string{
	CategoryFamily:         "Medeni Hukuk",
	CategoryObligations:    "Borçlar Hukuku",
	CategoryLabor:          "İş Hukuku",
	CategoryCriminal:       "Ceza Hukuku",
	CategoryCommercial:     "Ticaret Hukuku",
	CategoryAdministrative: "İdare Hukuku",
	CategoryConsumer:       "Tüketici Hukuku",
}

var categoryDisplayNames = map[CaseCategory]string{
	CategoryFamily:         "Aile Hukuku",
	CategoryObligations:    "Borçlar Hukuku",
	CategoryLabor:          "İş Hukuku",
	CategoryCriminal:       "Ceza Hukuku",
	CategoryCommercial:     "Ticaret Hukuku",
	CategoryAdministrative: "İdare Hukuku",
	CategoryConsumer:       "Tüketici Hukuku",
}

// StoreLabel returns the statute category label stored in the corpus for this tag.
// Unknown tags are returned verbatim so callers can pass stored labels directly.
func (c CaseCategory) StoreLabel() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// DisplayName returns the Turkish name used in analysis prompts
func (c CaseCategory) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}
