package dto

type ExemplarDocumentDTO struct {
	UserUtterance  string `json:"user_utterance" validate:"required"`
	SystemResponse string `json:"system_response" validate:"required"`
	Emotion        string `json:"emotion,omitempty"`
	Relationship   string `json:"relationship,omitempty"`
	EmpathyLabel   string `json:"empathy_label,omitempty"`
}

type AddDocumentsRequest struct {
	Documents []ExemplarDocumentDTO `json:"documents" validate:"required,min=1,dive"`
}

type AddDocumentsResponse struct {
	Enqueued int `json:"enqueued"`
}

type SearchRequest struct {
	Query        string `json:"query" validate:"required"`
	TopK         int    `json:"top_k,omitempty"`
	Emotion      string `json:"emotion,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type SearchResultDTO struct {
	Id             string  `json:"id"`
	UserUtterance  string  `json:"user_utterance"`
	SystemResponse string  `json:"system_response"`
	Emotion        string  `json:"emotion,omitempty"`
	Relationship   string  `json:"relationship,omitempty"`
	Similarity     float64 `json:"similarity"`
}

type SearchResponse struct {
	Results []SearchResultDTO `json:"results"`
}

type DeleteDocumentsRequest struct {
	Ids []string `json:"ids,omitempty"`
	All bool     `json:"all,omitempty"`
}

type StatsResponse struct {
	DocumentCount int64  `json:"document_count"`
	Status        string `json:"status"`
}

// PublishIngestExemplarsMessage is the ingestion queue payload.
type PublishIngestExemplarsMessage struct {
	Documents []ExemplarDocumentDTO `json:"documents"`
}
