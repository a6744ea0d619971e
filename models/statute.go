package models

// Statute represents one piece of Turkish legislation
type Statute struct {
	ID              int64            `json:"id"`
	StatuteNumber   string           `json:"statute_number"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Content         string           `json:"content"`
	PublicationDate string           `json:"publication_date"`
	LastUpdated     string           `json:"last_updated"`
	Articles        []StatuteArticle `json:"articles,omitempty"` // Only populated by full fetches
}

// StatuteArticle represents one numbered article owned by a statute
type StatuteArticle struct {
	ID            int64  `json:"id"`
	StatuteID     int64  `json:"statute_id"`
	ArticleNumber string `json:"article_number"`
	Content       string `json:"content"`
}

// ArticleMatch is an article search hit with the owning statute's identity
type ArticleMatch struct {
	StatuteArticle
	StatuteName   string `json:"statute_name"`
	StatuteNumber string `json:"statute_number"`
}
