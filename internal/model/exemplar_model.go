package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Exemplar struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserUtterance  string          `gorm:"type:text;not null"`
	SystemResponse string          `gorm:"type:text;not null"`
	Emotion        string          `gorm:"type:varchar(50);index"`
	Relationship   string          `gorm:"type:varchar(50);index"`
	EmpathyLabel   string          `gorm:"type:varchar(50);index"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (Exemplar) TableName() string {
	return "exemplars"
}
