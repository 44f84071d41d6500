package jina

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerankOrdersByRelevance(t *testing.T) {
	var captured rerankRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"index": 2, "relevance_score": 0.95},
				{"index": 0, "relevance_score": 0.41},
			},
		})
	}))
	defer srv.Close()

	reranker := NewJinaReranker("test-key", "").WithBaseURL(srv.URL)

	docs := []string{"alpha", "beta", "gamma"}
	ranked, err := reranker.Rerank(context.Background(), "which greek letter?", docs, 2)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "gamma", ranked[0].Text)
	assert.InDelta(t, 0.95, ranked[0].Score, 1e-9)
	assert.Equal(t, "alpha", ranked[1].Text)

	assert.Equal(t, 2, captured.TopN)
	assert.Equal(t, "jina-reranker-v2-base-multilingual", captured.Model)
	assert.Equal(t, docs, captured.Documents)
}

func TestRerankClampsTopNToBatchSize(t *testing.T) {
	var captured rerankRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	}))
	defer srv.Close()

	reranker := NewJinaReranker("k", "").WithBaseURL(srv.URL)

	_, err := reranker.Rerank(context.Background(), "q", []string{"only one"}, 4)

	require.NoError(t, err)
	assert.Equal(t, 1, captured.TopN)
}

func TestRerankEmptyBatchSkipsAPICall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected API call for empty batch")
	}))
	defer srv.Close()

	reranker := NewJinaReranker("k", "").WithBaseURL(srv.URL)

	ranked, err := reranker.Rerank(context.Background(), "q", nil, 4)

	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRerankSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer srv.Close()

	reranker := NewJinaReranker("bad", "").WithBaseURL(srv.URL)

	_, err := reranker.Rerank(context.Background(), "q", []string{"doc"}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRerankDropsOutOfRangeIndexes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"index": 9, "relevance_score": 0.99},
				{"index": 0, "relevance_score": 0.5},
			},
		})
	}))
	defer srv.Close()

	reranker := NewJinaReranker("k", "").WithBaseURL(srv.URL)

	ranked, err := reranker.Rerank(context.Background(), "q", []string{"doc"}, 1)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "doc", ranked[0].Text)
}
