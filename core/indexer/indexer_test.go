package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/config"
)

type recordingStore struct {
	collections map[string]bool
	inserted    []*schema.Document
	deletedIDs  []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{collections: make(map[string]bool)}
}

func (s *recordingStore) CreateCollection(ctx context.Context, collectionName string) error {
	s.collections[collectionName] = true
	return nil
}

func (s *recordingStore) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	return s.collections[collectionName], nil
}

func (s *recordingStore) DeleteCollection(ctx context.Context, collectionName string) error {
	delete(s.collections, collectionName)
	return nil
}

func (s *recordingStore) InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		s.inserted = append(s.inserted, c)
		ids[i] = c.ID
	}
	return ids, nil
}

func (s *recordingStore) DeleteByTopicID(ctx context.Context, collectionName string, topicID string) error {
	s.deletedIDs = append(s.deletedIDs, topicID)
	return nil
}

func (s *recordingStore) SearchByVector(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error) {
	return nil, nil
}

// embeddingStub 按输入条数返回固定维度向量的OpenAI兼容接口
func embeddingStub(dim int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req common.EmbeddingRequest
		json.NewDecoder(r.Body).Decode(&req)

		data := make([]map[string]interface{}, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]interface{}{
				"embedding": make([]float64, dim),
				"index":     i,
				"object":    "embedding",
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data, "object": "list"})
	}))
}

func newTestIndexer(t *testing.T, store *recordingStore, baseURL string) *Indexer {
	ix, err := New(context.Background(), &config.IndexerConfig{
		Collection:     "forum_chunks",
		APIKey:         "test-key",
		BaseURL:        baseURL,
		EmbeddingModel: "text-embedding-3-small",
		EmbeddingDim:   4,
		ChunkSize:      1000,
		OverlapSize:    100,
	}, store)
	assert.NoError(t, err)
	return ix
}

const topicPayload = `{
	"id": 42,
	"title": "How to submit the project",
	"slug": "how-to-submit-the-project",
	"created_at": "2025-03-01T10:00:00.000Z",
	"post_stream": {
		"posts": [
			{"id": 1, "post_number": 1, "username": "alice", "cooked": "<p>Use the <b>submission form</b> before Friday.</p>"},
			{"id": 2, "post_number": 2, "username": "bob", "cooked": "<p>Thanks, that worked for me!</p>"},
			{"id": 3, "post_number": 3, "username": "carol", "cooked": ""}
		]
	}
}`

func TestIndexTopic(t *testing.T) {
	server := embeddingStub(4)
	defer server.Close()

	store := newRecordingStore()
	ix := newTestIndexer(t, store, server.URL)

	count, err := ix.IndexTopic(context.Background(), "https://forum.example.com", []byte(topicPayload))
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	// 旧chunk先被清理
	assert.Equal(t, []string{"42"}, store.deletedIDs)

	assert.Equal(t, 2, len(store.inserted))
	for _, c := range store.inserted {
		assert.Equal(t, "42", c.MetaData["topic_id"])
		assert.Equal(t, "How to submit the project", c.MetaData["title"])
		assert.Equal(t, "https://forum.example.com/t/how-to-submit-the-project/42", c.MetaData["url"])
	}
	// HTML标签被去掉
	assert.Contains(t, store.inserted[0].Content, "submission form")
	assert.NotContains(t, store.inserted[0].Content, "<b>")
}

func TestIndexTopicInvalidPayload(t *testing.T) {
	server := embeddingStub(4)
	defer server.Close()

	store := newRecordingStore()
	ix := newTestIndexer(t, store, server.URL)

	_, err := ix.IndexTopic(context.Background(), "https://forum.example.com", []byte("not json"))
	assert.Error(t, err)

	_, err = ix.IndexTopic(context.Background(), "https://forum.example.com", []byte(`{"title":"no id"}`))
	assert.Error(t, err)
}

func TestIndexTopicNoContent(t *testing.T) {
	server := embeddingStub(4)
	defer server.Close()

	store := newRecordingStore()
	ix := newTestIndexer(t, store, server.URL)

	payload := `{"id": 7, "title": "Empty", "slug": "empty", "post_stream": {"posts": [{"id": 1, "post_number": 1, "cooked": ""}]}}`
	count, err := ix.IndexTopic(context.Background(), "https://forum.example.com", []byte(payload))
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, len(store.inserted))
	// 没有内容时不应该去动向量库
	assert.Equal(t, 0, len(store.deletedIDs))
}

func TestEnsureCollection(t *testing.T) {
	server := embeddingStub(4)
	defer server.Close()

	store := newRecordingStore()
	ix := newTestIndexer(t, store, server.URL)

	assert.NoError(t, ix.EnsureCollection(context.Background()))
	assert.True(t, store.collections["forum_chunks"])

	// 已存在时幂等
	assert.NoError(t, ix.EnsureCollection(context.Background()))
}
