package models

// Book mirrors the service's book representation. AvailableCopies is
// whatever the server last reported; the client never adjusts it.
type Book struct {
	ID              ID       `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn,omitempty"`
	Genre           string   `json:"genre,omitempty"`
	Description     string   `json:"description,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	Views           *int     `json:"views,omitempty"`
	TotalCopies     *int     `json:"total_copies,omitempty"`
	AvailableCopies int      `json:"available_copies"`
	CoverImageURL   string   `json:"cover_image_url,omitempty"`
}

// Available reports whether the server last reported a free copy.
func (b Book) Available() bool {
	return b.AvailableCopies > 0
}

// SearchResult wraps a ranked search hit.
type SearchResult struct {
	Book            Book    `json:"book"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Recommendation is a per-user suggestion; it is never persisted.
type Recommendation struct {
	Book   Book    `json:"book"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}
