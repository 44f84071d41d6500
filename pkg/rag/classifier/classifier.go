// Package classifier maps a free-text query onto one of the corpus
// categories using a single non-streaming LLM call.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"campus-assistant-be/internal/constant"
	"campus-assistant-be/pkg/llm"
)

// labelMaxTokens bounds the classification completion; category labels are
// a few words at most.
const labelMaxTokens = 16

type Classifier struct {
	llmProvider llm.LLMProvider
}

func NewClassifier(llmProvider llm.LLMProvider) *Classifier {
	return &Classifier{llmProvider: llmProvider}
}

// Classify returns the best-fitting category for the query, or the
// "Not Relevant" sentinel. The raw model output is trimmed and then
// validated against the known set: an unrecognized label collapses to the
// sentinel instead of leaking a freeform string into the retrieval filter.
// On engine failure the sentinel is returned alongside the error so the
// caller can keep the turn alive while still logging the failure.
func (c *Classifier) Classify(ctx context.Context, query string, categories []string) (string, error) {
	prompt := buildPrompt(query, categories)

	// The answer is a bare label; cap generation accordingly.
	raw, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0), llm.WithMaxTokens(labelMaxTokens))
	if err != nil {
		return constant.CategoryNotRelevant, fmt.Errorf("classify query: %w", err)
	}

	label := strings.TrimSpace(raw)
	for _, cat := range categories {
		if strings.EqualFold(label, cat) {
			return cat, nil
		}
	}
	return constant.CategoryNotRelevant, nil
}

func buildPrompt(query string, categories []string) string {
	var b strings.Builder

	b.WriteString("You are a query classifier for a campus knowledge base.\n")
	b.WriteString("The known categories are:\n")
	for _, cat := range categories {
		b.WriteString("- ")
		b.WriteString(cat)
		b.WriteString("\n")
	}
	b.WriteString("\nPick the single category that best fits the question below.\n")
	b.WriteString("Reply with the category name only, nothing else.\n")
	b.WriteString("If no category reasonably fits, reply exactly: ")
	b.WriteString(constant.CategoryNotRelevant)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)

	return b.String()
}
