package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"

	"empathy-chat-be/internal/constant"
	"empathy-chat-be/pkg/llm"
	"empathy-chat-be/pkg/rag"
)

// Rewriter turns (message, history) into one self-contained search sentence.
type Rewriter struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewRewriter(llmProvider llm.LLMProvider, logger *log.Logger) *Rewriter {
	return &Rewriter{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Rewrite returns the message unchanged when there is no history; a lone
// message already is its own best query and the LLM round-trip is skipped.
func (r *Rewriter) Rewrite(ctx context.Context, message string, history []llm.Message) (string, error) {
	if len(history) == 0 {
		return message, nil
	}

	var historyBlock strings.Builder
	for _, msg := range history {
		historyBlock.WriteString(fmt.Sprintf("[%s] %s\n", msg.Role, msg.Content))
	}

	prompt := fmt.Sprintf(constant.QueryRewritePrompt, strings.TrimRight(historyBlock.String(), "\n"), message)

	response, err := r.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", rag.ErrGeneration, err)
	}

	rewritten := strings.Trim(strings.TrimSpace(response), `"`)
	if rewritten == "" {
		rewritten = message
	}

	r.logger.Printf("[REWRITE] '%s' -> '%s'", message, rewritten)
	return rewritten, nil
}
