package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"empathy-chat-be/internal/config"
	"empathy-chat-be/internal/pkg/logger"
	"empathy-chat-be/internal/repository/unitofwork"
	"empathy-chat-be/pkg/database"
	"empathy-chat-be/pkg/embedding"
	"empathy-chat-be/pkg/vectorindex"

	"github.com/fatih/color"
)

const batchSize = 100

// corpusEntry mirrors one record of the counseling corpus JSON file.
type corpusEntry struct {
	UserUtterance  string `json:"user_utterance"`
	SystemResponse string `json:"system_response"`
	Emotion        string `json:"emotion"`
	Relationship   string `json:"relationship"`
	EmpathyLabel   string `json:"empathy_label"`
}

func main() {
	cfg := config.Load()

	corpusPath := os.Getenv("CORPUS_FILE")
	if len(os.Args) > 1 {
		corpusPath = os.Args[1]
	}
	if corpusPath == "" {
		log.Fatal("Error: corpus file path required (argument or CORPUS_FILE)")
	}

	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		log.Fatalf("Error: failed to read corpus file: %v", err)
	}

	var entries []corpusEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatalf("Error: failed to parse corpus JSON: %v", err)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: failed to connect to database: %v", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	seedLogger := logger.NewIsolatedLogger("logs/seed.log")
	defer seedLogger.Sync()

	index := vectorindex.NewPgIndex(unitofwork.NewRepositoryFactory(db), provider, seedLogger)

	color.Cyan("Seeding %d exemplars from %s", len(entries), corpusPath)

	docs := make([]vectorindex.Document, 0, len(entries))
	skipped := 0
	for i, e := range entries {
		if e.UserUtterance == "" || e.SystemResponse == "" {
			color.Yellow("Skipping entry %d: missing utterance or response", i)
			skipped++
			continue
		}
		docs = append(docs, vectorindex.Document{
			Content: e.UserUtterance,
			Metadata: map[string]string{
				"user_utterance":  e.UserUtterance,
				"system_response": e.SystemResponse,
				"emotion":         e.Emotion,
				"relationship":    e.Relationship,
				"empathy_label":   e.EmpathyLabel,
			},
		})
	}

	ctx := context.Background()
	inserted := 0
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		ids, err := index.Add(ctx, docs[start:end])
		if err != nil {
			color.Red("Batch %d-%d failed: %v", start, end, err)
			log.Fatalf("Error: seeding aborted: %v", err)
		}
		inserted += len(ids)
		color.Green("Seeded %d/%d exemplars", inserted, len(docs))
	}

	color.Cyan("Done. Inserted %d exemplars, skipped %d invalid entries.", inserted, skipped)
}
