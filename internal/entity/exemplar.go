package entity

import (
	"time"

	"github.com/google/uuid"
)

// Exemplar is one counseling exchange from the curated corpus:
// a user utterance plus the reference response and its annotations.
type Exemplar struct {
	Id             uuid.UUID
	UserUtterance  string
	SystemResponse string
	Emotion        string
	Relationship   string
	EmpathyLabel   string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Document renders the exemplar the way it was embedded, utterance first.
func (e *Exemplar) Document() string {
	return e.UserUtterance
}
