package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/pkg/llm"
)

// Analysis carries the inferred metadata tags for retrieval filtering.
type Analysis struct {
	PrimaryEmotion      string `json:"primary_emotion"`
	RelationshipContext string `json:"relationship_context"`
}

// Analyzer infers emotion and relationship tags from a single message.
type Analyzer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewAnalyzer(llmProvider llm.LLMProvider, logger *log.Logger) *Analyzer {
	return &Analyzer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Analyze never fails the pipeline: on any LLM or parse error it falls back
// to the default tags, since tagging only narrows retrieval.
func (a *Analyzer) Analyze(ctx context.Context, message string) Analysis {
	prompt := fmt.Sprintf(constant.EmotionAnalysisPrompt,
		formatLabels(constant.EmotionTypes),
		formatLabels(constant.RelationshipTypes),
		message,
	)

	response, err := a.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(200),
		llm.WithJSONOutput(),
	)
	if err != nil {
		a.logger.Printf("[WARN] Emotion analysis failed, using fallback: %v", err)
		return fallbackAnalysis()
	}

	analysis, err := parseAnalysis(response)
	if err != nil {
		a.logger.Printf("[WARN] Emotion analysis parsing failed, using fallback: %v", err)
		return fallbackAnalysis()
	}

	a.logger.Printf("[ANALYZE] emotion='%s' relationship='%s'", analysis.PrimaryEmotion, analysis.RelationshipContext)
	return analysis
}

func parseAnalysis(response string) (Analysis, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return Analysis{}, fmt.Errorf("no JSON found in response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(jsonContent), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// Tags outside the known label sets would produce a filter matching nothing.
	if !contains(constant.EmotionTypes, analysis.PrimaryEmotion) {
		analysis.PrimaryEmotion = constant.FallbackEmotion
	}
	if !contains(constant.RelationshipTypes, analysis.RelationshipContext) {
		analysis.RelationshipContext = constant.FallbackRelationship
	}

	return analysis, nil
}

func fallbackAnalysis() Analysis {
	return Analysis{
		PrimaryEmotion:      constant.FallbackEmotion,
		RelationshipContext: constant.FallbackRelationship,
	}
}

func formatLabels(labels []string) string {
	return "[" + strings.Join(labels, ", ") + "]"
}

func contains(labels []string, value string) bool {
	for _, l := range labels {
		if l == value {
			return true
		}
	}
	return false
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
