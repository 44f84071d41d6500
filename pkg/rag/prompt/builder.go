// Package prompt assembles the system prompts that frame each chat turn.
package prompt

import (
	"strings"

	"campus-assistant-be/internal/constant"
)

// ForCategory builds the system prompt used by the classification pipeline.
// The assistant is scoped to the resolved category; off-topic questions are
// politely declined and steered back to campus matters.
func ForCategory(category, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = constant.NoContextFallback
	}

	var b strings.Builder
	b.WriteString("You are a helpful campus assistant answering questions about ")
	b.WriteString(category)
	b.WriteString(".\n")
	b.WriteString("Answer using the context below. If the context does not cover the question, say so honestly.\n")
	b.WriteString("If the question is unrelated to campus topics, politely decline and steer the conversation back to campus matters.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	return b.String()
}

// ForGeneral builds the system prompt used by the rerank pipeline, which
// answers from an unfiltered candidate set.
func ForGeneral(contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		contextText = constant.NoContextFallback
	}

	var b strings.Builder
	b.WriteString("You are a helpful campus assistant.\n")
	b.WriteString("Answer strictly from the context below. If the answer is not in the context, say you do not know.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(contextText)
	return b.String()
}

// JoinContext flattens retrieved passages into the context block, separated
// by blank lines. An empty batch yields the fallback string.
func JoinContext(passages []string) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return constant.NoContextFallback
	}
	return strings.Join(parts, "\n\n")
}
