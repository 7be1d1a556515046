package common

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/virtualta/forumqa/core/errors"
)

type testEmbeddingConfig struct {
	apiKey  string
	baseURL string
	model   string
}

func (c *testEmbeddingConfig) GetAPIKey() string         { return c.apiKey }
func (c *testEmbeddingConfig) GetBaseURL() string        { return c.baseURL }
func (c *testEmbeddingConfig) GetEmbeddingModel() string { return c.model }

// newEmbeddingServer 模拟OpenAI兼容的embedding接口，按输入条数返回dim维向量
func newEmbeddingServer(t *testing.T, dim int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]interface{}{"model": req.Model, "object": "list"}
		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, dim)
			for j := range vec {
				vec[j] = float64(i) + 0.1
			}
			data[i] = map[string]interface{}{"embedding": vec, "index": i, "object": "embedding"}
		}
		resp["data"] = data
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEmbedder(t *testing.T, baseURL string, dim int) *CustomEmbedder {
	e, err := NewEmbedding(&testEmbeddingConfig{
		apiKey:  "test-key",
		baseURL: baseURL,
		model:   "text-embedding-3-small",
	}, dim)
	assert.NoError(t, err)
	return e
}

func TestEmbedStrings(t *testing.T) {
	server := newEmbeddingServer(t, 4)
	defer server.Close()

	e := newTestEmbedder(t, server.URL, 4)
	vectors, err := e.EmbedStrings(context.Background(), []string{"first", "second"})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(vectors))
	assert.Equal(t, 4, len(vectors[0]))
	assert.InDelta(t, 0.1, vectors[0][0], 1e-6)
	assert.InDelta(t, 1.1, vectors[1][0], 1e-6)
}

func TestEmbedSingleText(t *testing.T) {
	server := newEmbeddingServer(t, 4)
	defer server.Close()

	e := newTestEmbedder(t, server.URL, 4)
	vec, err := e.Embed(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, 4, len(vec))
}

func TestEmbedEmptyText(t *testing.T) {
	server := newEmbeddingServer(t, 4)
	defer server.Close()

	e := newTestEmbedder(t, server.URL, 4)
	_, err := e.Embed(context.Background(), "   ")
	assert.Error(t, err)
	assert.Equal(t, errors.ErrInvalidParameter, errors.CodeOf(err))
}

func TestEmbedDimensionMismatch(t *testing.T) {
	// 服务端返回8维向量，客户端期望4维
	server := newEmbeddingServer(t, 8)
	defer server.Close()

	e := newTestEmbedder(t, server.URL, 4)
	_, err := e.EmbedStrings(context.Background(), []string{"text"})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrEmbeddingFailed, errors.CodeOf(err))
}

func TestEmbedAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	e := newTestEmbedder(t, server.URL, 4)
	_, err := e.EmbedStrings(context.Background(), []string{"text"})
	assert.Error(t, err)
	assert.Equal(t, errors.ErrEmbeddingFailed, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewEmbeddingValidation(t *testing.T) {
	_, err := NewEmbedding(&testEmbeddingConfig{baseURL: "http://x", model: "m"}, 4)
	assert.Error(t, err)

	_, err = NewEmbedding(&testEmbeddingConfig{apiKey: "k", model: "m"}, 4)
	assert.Error(t, err)

	_, err = NewEmbedding(&testEmbeddingConfig{apiKey: "k", baseURL: "http://x"}, 4)
	assert.Error(t, err)

	_, err = NewEmbedding(&testEmbeddingConfig{apiKey: "k", baseURL: "http://x", model: "m"}, 0)
	assert.Error(t, err)
}
