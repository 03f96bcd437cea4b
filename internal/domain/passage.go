package domain

// Passage is a unit of stored knowledge: a text and its embedding.
// Rows are written by ingestion and are read-only to the chat pipeline.
type Passage struct {
	Content   string    `json:"content"   db:"content"`
	Embedding []float32 `json:"-"         db:"embedding"`
}

// RetrievalMatch is a stored passage judged relevant to a query.
type RetrievalMatch struct {
	Content    string  `json:"content"    db:"content"`
	Similarity float64 `json:"similarity" db:"similarity"`
}

// Default retrieval parameters passed to match_documents.
const (
	DefaultMatchThreshold = 0.3
	DefaultMatchCount     = 5
)
