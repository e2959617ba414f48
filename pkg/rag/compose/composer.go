package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
	"empathy-chat-be/pkg/texttransform"
)

const (
	StrategyAdaptation = "RAG-Adaptation"
	StrategyDirect     = "Direct-Generation"
)

// Strategy is the fixed-shape decomposition of an exemplar response.
type Strategy struct {
	EmpathyPhrase       string `json:"empathy_phrase"`
	CoreSuggestion      string `json:"core_suggestion"`
	EncouragementPhrase string `json:"encouragement_phrase"`
}

// Output is the composer's result for either branch. PromptTrace exists
// for debugging only and must never reach the end user.
type Output struct {
	Text        string
	PromptTrace string
	Strategy    string
	// Adaptation details, populated on the adaptation branch only.
	SourceAdvice      string
	ConvertedAdvice   string
	ExtractedStrategy *Strategy
}

// Composer produces the final reply from a verified exemplar or from scratch.
type Composer struct {
	llmProvider llm.LLMProvider
	transformer texttransform.Transformer
	logger      *log.Logger
}

func NewComposer(llmProvider llm.LLMProvider, transformer texttransform.Transformer, logger *log.Logger) *Composer {
	if transformer == nil {
		transformer = texttransform.Noop{}
	}
	return &Composer{
		llmProvider: llmProvider,
		transformer: transformer,
		logger:      logger,
	}
}

// Adapt implements the adaptation branch: decompose the exemplar response
// into a strategy, then resynthesize a reply from that strategy and the
// live conversation. Two calls, so the exemplar is never copied verbatim.
func (c *Composer) Adapt(ctx context.Context, message, exemplarResponse string, history []llm.Message) (*Output, error) {
	converted := c.transformer.Transform(exemplarResponse)

	strategy, err := c.extractStrategy(ctx, converted)
	if err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf(constant.StrategyComposePrompt,
		message,
		strategy.EmpathyPhrase,
		strategy.CoreSuggestion,
		strategy.EncouragementPhrase,
	)
	messages := buildMessages(history, userPrompt)

	text, err := c.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(0.5),
		llm.WithMaxTokens(400),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrGeneration, err)
	}

	c.logger.Printf("[COMPOSE] Adaptation reply generated (%d chars)", len(text))
	return &Output{
		Text:              strings.TrimSpace(text),
		PromptTrace:       renderPromptTrace(messages),
		Strategy:          StrategyAdaptation,
		SourceAdvice:      exemplarResponse,
		ConvertedAdvice:   converted,
		ExtractedStrategy: strategy,
	}, nil
}

// Direct implements the direct branch. Inspiration docs are unverified
// retrieval leftovers: they may shape tone and content but are never
// quoted or attributed.
func (c *Composer) Direct(ctx context.Context, message string, history []llm.Message, inspirationDocs []string) (*Output, error) {
	inspiration := ""
	if len(inspirationDocs) > 0 {
		var b strings.Builder
		b.WriteString(constant.InspirationPreamble)
		for _, doc := range inspirationDocs {
			b.WriteString("- " + doc + "\n")
		}
		inspiration = b.String()
	}

	userPrompt := fmt.Sprintf(constant.DirectResponsePrompt, inspiration, message)
	messages := buildMessages(history, userPrompt)

	text, err := c.llmProvider.Chat(ctx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(300),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrGeneration, err)
	}

	c.logger.Printf("[COMPOSE] Direct reply generated (%d chars, %d inspiration docs)", len(text), len(inspirationDocs))
	return &Output{
		Text:        strings.TrimSpace(text),
		PromptTrace: renderPromptTrace(messages),
		Strategy:    StrategyDirect,
	}, nil
}

func (c *Composer) extractStrategy(ctx context.Context, exemplarResponse string) (*Strategy, error) {
	prompt := fmt.Sprintf(constant.StrategyExtractionPrompt, exemplarResponse)

	response, err := c.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(300),
		llm.WithJSONOutput(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: strategy extraction: %v", rag.ErrGeneration, err)
	}

	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("%w: strategy extraction: no JSON in response", rag.ErrGeneration)
	}

	var strategy Strategy
	if err := json.Unmarshal([]byte(jsonContent), &strategy); err != nil {
		return nil, fmt.Errorf("%w: strategy extraction: %v", rag.ErrGeneration, err)
	}

	return &strategy, nil
}

func buildMessages(history []llm.Message, userPrompt string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.TeenEmpathySystemPrompt,
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: userPrompt,
	})
	return messages
}

func renderPromptTrace(messages []llm.Message) string {
	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = fmt.Sprintf("[%s] %s", msg.Role, msg.Content)
	}
	return strings.Join(lines, "\n")
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
