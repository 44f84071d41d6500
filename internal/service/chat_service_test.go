package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-assistant-be/internal/constant"
	"campus-assistant-be/internal/dto"
	"campus-assistant-be/internal/pkg/apperr"
	"campus-assistant-be/pkg/llm"
	"campus-assistant-be/pkg/rag/session"
	"campus-assistant-be/pkg/rerank"
	"campus-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeRetriever struct {
	docs        []store.Document
	err         error
	gotTopK     int
	gotCategory string
	calls       int
}

func (f *fakeRetriever) Search(ctx context.Context, query string, topK int, category string) ([]store.Document, error) {
	f.calls++
	f.gotTopK = topK
	f.gotCategory = category
	return f.docs, f.err
}

func (f *fakeRetriever) Categories() []string {
	return []string{"Academic Calendar", "Financial Aid", "Housing"}
}

type fakeClassifier struct {
	category string
	err      error
}

func (f *fakeClassifier) Classify(ctx context.Context, query string, categories []string) (string, error) {
	return f.category, f.err
}

type fakeReranker struct {
	ranked        []rerank.RankedDocument
	err           error
	gotCandidates []string
	gotTopN       int
}

func (f *fakeReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]rerank.RankedDocument, error) {
	f.gotCandidates = documents
	f.gotTopN = topN
	return f.ranked, f.err
}

type fakeLLM struct {
	chunks     []string
	streamErr  error
	gotHistory []llm.Message
	gotOpts    llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(f.chunks, ""), nil
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, handler llm.StreamHandler, options ...llm.Option) error {
	f.gotHistory = history
	for _, o := range options {
		o(&f.gotOpts)
	}
	for _, chunk := range f.chunks {
		if err := handler(chunk); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return strings.Join(f.chunks, ""), nil
}

type chatFixture struct {
	retriever  *fakeRetriever
	classifier *fakeClassifier
	reranker   *fakeReranker
	llm        *fakeLLM
	memory     *session.Memory
	svc        IChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		retriever:  &fakeRetriever{},
		classifier: &fakeClassifier{category: "Housing"},
		reranker:   &fakeReranker{},
		llm:        &fakeLLM{chunks: []string{"Hello", " ", "world"}},
		memory:     session.NewMemory(4, time.Minute),
	}
	f.svc = NewChatService(f.retriever, f.classifier, f.reranker, f.llm, f.memory, noopLogger{})
	return f
}

func (f *chatFixture) run(t *testing.T, req *dto.ChatRequest) string {
	t.Helper()
	stream, err := f.svc.Chat(context.Background(), req)
	require.NoError(t, err)

	var out strings.Builder
	stream(context.Background(), func(delta string) error {
		out.WriteString(delta)
		return nil
	})
	return out.String()
}

func TestChatRejectsEmptyQueryBeforeStreaming(t *testing.T) {
	f := newChatFixture()

	_, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Model: constant.ChatModelCategory})

	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, f.retriever.calls)
}

func TestChatRejectsUnknownModel(t *testing.T) {
	f := newChatFixture()

	_, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Model: "model3", Query: "hi"})

	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "model3")
}

func TestCategoryPipelineStreamsTokensInOrder(t *testing.T) {
	f := newChatFixture()
	f.retriever.docs = []store.Document{
		{ID: "a.pdf", Category: "Housing", Text: "Dorm applications open in May."},
	}

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, Query: "when can I apply for a dorm?"})

	assert.Equal(t, "Hello world", out)
	assert.Equal(t, 3, f.retriever.gotTopK)
	assert.Equal(t, "Housing", f.retriever.gotCategory)

	require.NotEmpty(t, f.llm.gotHistory)
	system := f.llm.gotHistory[0]
	assert.Equal(t, constant.ChatMessageRoleSystem, system.Role)
	assert.Contains(t, system.Content, "Dorm applications open in May.")
	assert.InDelta(t, 0.9, f.llm.gotOpts.Temperature, 1e-9)
}

func TestCategoryPipelineUsesFallbackContextWhenNoDocuments(t *testing.T) {
	f := newChatFixture()
	f.retriever.docs = nil

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, Query: "anything"})

	assert.Equal(t, "Hello world", out)
	assert.Contains(t, f.llm.gotHistory[0].Content, constant.NoContextFallback)
}

func TestCategoryPipelineKeepsTurnAliveOnClassifierFailure(t *testing.T) {
	f := newChatFixture()
	f.classifier.category = constant.CategoryNotRelevant
	f.classifier.err = errors.New("llm down")

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, Query: "what is the meaning of life?"})

	assert.Equal(t, "Hello world", out)
	assert.Equal(t, constant.CategoryNotRelevant, f.retriever.gotCategory)
}

func TestCategoryPipelineEmitsInBandErrorOnRetrievalFailure(t *testing.T) {
	f := newChatFixture()
	f.retriever.err = errors.New("db down")

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, Query: "hi"})

	assert.True(t, strings.HasPrefix(out, constant.StreamErrorPrefix))
	assert.Contains(t, out, "db down")
}

func TestCategoryPipelineEmitsInBandErrorOnGenerationFailure(t *testing.T) {
	f := newChatFixture()
	f.llm.streamErr = errors.New("model crashed")

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, Query: "hi"})

	assert.True(t, strings.HasPrefix(out, "Hello world"))
	assert.Contains(t, out, constant.StreamErrorPrefix)
	assert.Contains(t, out, "model crashed")
}

func TestCategoryPipelineCarriesMemoryAcrossTurns(t *testing.T) {
	f := newChatFixture()

	f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, SessionId: "s1", Query: "first question"})
	f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, SessionId: "s1", Query: "follow-up"})

	history := f.llm.gotHistory
	require.Len(t, history, 4)
	assert.Equal(t, constant.ChatMessageRoleSystem, history[0].Role)
	assert.Equal(t, "first question", history[1].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[2].Role)
	assert.Equal(t, "Hello world", history[2].Content)
	assert.Equal(t, "follow-up", history[3].Content)
}

func TestCategoryPipelineResetsMemoryOnTopicChange(t *testing.T) {
	f := newChatFixture()

	f.classifier.category = "Academic Calendar"
	f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, SessionId: "s1", Query: "when does the semester start?"})

	f.classifier.category = "Financial Aid"
	f.run(t, &dto.ChatRequest{Model: constant.ChatModelCategory, SessionId: "s1", Query: "how do I get a scholarship?"})

	history := f.llm.gotHistory
	require.Len(t, history, 2)
	assert.Equal(t, "how do I get a scholarship?", history[1].Content)
}

func TestRerankPipelineNarrowsCandidates(t *testing.T) {
	f := newChatFixture()
	f.retriever.docs = []store.Document{
		{Text: "doc0"}, {Text: "doc1"}, {Text: "doc2"}, {Text: "doc3"},
		{Text: "doc4"}, {Text: "doc5"}, {Text: "doc6"}, {Text: "doc7"},
	}
	f.reranker.ranked = []rerank.RankedDocument{
		{Index: 5, Text: "doc5", Score: 0.98},
		{Index: 1, Text: "doc1", Score: 0.91},
	}

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelRerank, Query: "which doc?"})

	assert.Equal(t, "Hello world", out)
	assert.Equal(t, 8, f.retriever.gotTopK)
	assert.Equal(t, "", f.retriever.gotCategory)
	assert.Len(t, f.reranker.gotCandidates, 8)
	assert.Equal(t, 4, f.reranker.gotTopN)

	system := f.llm.gotHistory[0].Content
	assert.Contains(t, system, "doc5")
	assert.Contains(t, system, "doc1")
	assert.NotContains(t, system, "doc7")
	assert.InDelta(t, 0.2, f.llm.gotOpts.Temperature, 1e-9)
}

func TestRerankPipelineFallsBackWhenRerankReturnsNothing(t *testing.T) {
	f := newChatFixture()
	f.retriever.docs = []store.Document{
		{Text: "doc0"}, {Text: "doc1"}, {Text: "doc2"}, {Text: "doc3"},
		{Text: "doc4"}, {Text: "doc5"}, {Text: "doc6"}, {Text: "doc7"},
	}
	f.reranker.ranked = nil // success, but no usable results

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelRerank, Query: "which doc?"})

	assert.Equal(t, "Hello world", out)
	system := f.llm.gotHistory[0].Content
	for _, want := range []string{"doc0", "doc1", "doc2", "doc3"} {
		assert.Contains(t, system, want)
	}
	assert.NotContains(t, system, "doc4")
	assert.NotContains(t, system, constant.NoContextFallback)
}

func TestRerankPipelineFallsBackToRetrievalOrderOnFailure(t *testing.T) {
	f := newChatFixture()
	f.retriever.docs = []store.Document{
		{Text: "doc0"}, {Text: "doc1"}, {Text: "doc2"}, {Text: "doc3"},
		{Text: "doc4"}, {Text: "doc5"},
	}
	f.reranker.err = errors.New("rerank api down")

	out := f.run(t, &dto.ChatRequest{Model: constant.ChatModelRerank, Query: "which doc?"})

	assert.Equal(t, "Hello world", out)
	system := f.llm.gotHistory[0].Content
	for _, want := range []string{"doc0", "doc1", "doc2", "doc3"} {
		assert.Contains(t, system, want)
	}
	assert.NotContains(t, system, "doc4")
}
