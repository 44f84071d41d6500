package service

import (
	"context"
	"strings"

	"campus-assistant-be/internal/constant"
	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/pkg/apperr"
	"campus-assistant-be/internal/pkg/logger"
	"campus-assistant-be/internal/pkg/serverutils"
	"campus-assistant-be/pkg/llm"
	"campus-assistant-be/pkg/rag/prompt"
	"campus-assistant-be/pkg/rag/session"
	"campus-assistant-be/pkg/rerank"
	"campus-assistant-be/pkg/store"
)

const (
	categoryTopK        = 3
	categoryTemperature = 0.9

	rerankCandidates  = 8
	rerankTopN        = 4
	rerankTemperature = 0.2
)

// ContextRetriever is the slice of the corpus index the chat pipelines
// consume: similarity search plus the current category snapshot.
type ContextRetriever interface {
	Search(ctx context.Context, query string, topK int, category string) ([]store.Document, error)
	Categories() []string
}

// QueryClassifier maps a query onto a known category or the sentinel.
type QueryClassifier interface {
	Classify(ctx context.Context, query string, categories []string) (string, error)
}

// StreamFunc writes one answer incrementally through emit. It is invoked
// after the transport has committed a success status, so failures inside it
// are reported in-band with the stream error marker instead of a status
// code change.
type StreamFunc func(ctx context.Context, emit func(delta string) error)

type IChatService interface {
	// Chat validates the request and returns the streaming continuation.
	// Errors returned here (validation, unknown model) happen before any
	// byte of the response is written.
	Chat(ctx context.Context, request *dto.ChatRequest) (StreamFunc, error)
}

type chatService struct {
	retriever   ContextRetriever
	classifier  QueryClassifier
	reranker    rerank.Reranker
	llmProvider llm.LLMProvider
	memory      *session.Memory
	log         logger.ILogger
}

func NewChatService(
	retriever ContextRetriever,
	classifier QueryClassifier,
	reranker rerank.Reranker,
	llmProvider llm.LLMProvider,
	memory *session.Memory,
	log logger.ILogger,
) IChatService {
	return &chatService{
		retriever:   retriever,
		classifier:  classifier,
		reranker:    reranker,
		llmProvider: llmProvider,
		memory:      memory,
		log:         log,
	}
}

func (cs *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (StreamFunc, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	switch request.Model {
	case constant.ChatModelCategory:
		return cs.categoryStream(request), nil
	case constant.ChatModelRerank:
		return cs.rerankStream(request), nil
	default:
		return nil, apperr.NewValidation("unknown model '%s'", request.Model)
	}
}

// categoryStream is the memory-aware pipeline: classify, touch session
// memory, retrieve within the category and stream the answer.
func (cs *chatService) categoryStream(request *dto.ChatRequest) StreamFunc {
	return func(ctx context.Context, emit func(delta string) error) {
		category, err := cs.classifier.Classify(ctx, request.Query, cs.retriever.Categories())
		if err != nil {
			// The sentinel keeps the turn alive; the prompt will steer
			// the user back to campus topics.
			cs.log.Warn("chat", "classification failed, using sentinel", map[string]interface{}{
				"error": err.Error(),
			})
		}

		sessionID := request.SessionId
		if sessionID == "" {
			sessionID = constant.DefaultSessionID
		}
		history := cs.memory.Touch(sessionID, category, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: request.Query,
		})

		docs, err := cs.retriever.Search(ctx, request.Query, categoryTopK, category)
		if err != nil {
			cs.emitError(ctx, emit, "retrieval failed", err)
			return
		}

		system := prompt.ForCategory(category, prompt.JoinContext(documentTexts(docs)))
		messages := append([]llm.Message{{
			Role:    constant.ChatMessageRoleSystem,
			Content: system,
		}}, history...)

		answer, streamErr := cs.streamCompletion(ctx, emit, messages, categoryTemperature)
		if streamErr != nil {
			cs.emitError(ctx, emit, "generation failed", streamErr)
			return
		}

		cs.memory.Touch(sessionID, category, llm.Message{
			Role:    constant.ChatMessageRoleAssistant,
			Content: answer,
		})
	}
}

// rerankStream is the stateless pipeline: broad retrieval, a rerank pass
// narrowing the candidates, and a low-temperature grounded answer.
func (cs *chatService) rerankStream(request *dto.ChatRequest) StreamFunc {
	return func(ctx context.Context, emit func(delta string) error) {
		docs, err := cs.retriever.Search(ctx, request.Query, rerankCandidates, "")
		if err != nil {
			cs.emitError(ctx, emit, "retrieval failed", err)
			return
		}

		passages := cs.narrowCandidates(ctx, request.Query, documentTexts(docs))

		messages := []llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: prompt.ForGeneral(prompt.JoinContext(passages))},
			{Role: constant.ChatMessageRoleUser, Content: request.Query},
		}

		if _, streamErr := cs.streamCompletion(ctx, emit, messages, rerankTemperature); streamErr != nil {
			cs.emitError(ctx, emit, "generation failed", streamErr)
		}
	}
}

// narrowCandidates applies the rerank pass. An unusable rerank outcome, a
// failure or an empty result, degrades to the first candidates in retrieval
// order rather than failing the turn.
func (cs *chatService) narrowCandidates(ctx context.Context, query string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	firstN := candidates
	if len(firstN) > rerankTopN {
		firstN = firstN[:rerankTopN]
	}

	ranked, err := cs.reranker.Rerank(ctx, query, candidates, rerankTopN)
	if err != nil {
		cs.log.Warn("chat", "rerank failed, falling back to retrieval order", map[string]interface{}{
			"error": err.Error(),
		})
		return firstN
	}

	passages := make([]string, 0, len(ranked))
	for _, r := range ranked {
		passages = append(passages, r.Text)
	}
	if len(passages) == 0 {
		cs.log.Warn("chat", "rerank returned nothing usable, falling back to retrieval order", map[string]interface{}{
			"candidates": len(candidates),
		})
		return firstN
	}
	return passages
}

func (cs *chatService) streamCompletion(ctx context.Context, emit func(delta string) error, messages []llm.Message, temperature float64) (string, error) {
	var answer strings.Builder
	err := cs.llmProvider.ChatStream(ctx, messages, func(delta string) error {
		answer.WriteString(delta)
		return emit(delta)
	}, llm.WithTemperature(temperature))
	return answer.String(), err
}

// emitError appends the in-band error marker to an already-started stream.
// The write is best effort: the consumer may be gone.
func (cs *chatService) emitError(ctx context.Context, emit func(delta string) error, stage string, err error) {
	cs.log.Error("chat", stage, map[string]interface{}{"error": err.Error()})
	_ = emit(constant.StreamErrorPrefix + stage + ": " + err.Error())
}

func documentTexts(docs []store.Document) []string {
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		texts = append(texts, d.Text)
	}
	return texts
}
