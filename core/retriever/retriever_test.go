package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"
)

type fakeVectorStore struct {
	docs []*schema.Document
	err  error
}

func (f *fakeVectorStore) CreateCollection(ctx context.Context, collectionName string) error {
	return nil
}

func (f *fakeVectorStore) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	return true, nil
}

func (f *fakeVectorStore) DeleteCollection(ctx context.Context, collectionName string) error {
	return nil
}

func (f *fakeVectorStore) InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	return nil, nil
}

func (f *fakeVectorStore) DeleteByTopicID(ctx context.Context, collectionName string, topicID string) error {
	return nil
}

func (f *fakeVectorStore) SearchByVector(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error) {
	return f.docs, f.err
}

func doc(id string, score float64, content string, meta map[string]interface{}) *schema.Document {
	d := &schema.Document{ID: id, Content: content, MetaData: meta}
	d.WithScore(score)
	return d
}

func newTestRetriever(store *fakeVectorStore, score float64) *VectorRetriever {
	return New(store, &config.Config{Collection: "forum_chunks", Score: score})
}

func TestRetrieveSortsByScoreDesc(t *testing.T) {
	store := &fakeVectorStore{
		docs: []*schema.Document{
			doc("a", 0.3, "low", nil),
			doc("b", 0.9, "high", nil),
			doc("c", 0.6, "mid", nil),
		},
	}
	r := newTestRetriever(store, 0)

	passages, err := r.Retrieve(context.Background(), []float32{0.1}, 10)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(passages))
	assert.Equal(t, "b", passages[0].ID)
	assert.Equal(t, "c", passages[1].ID)
	assert.Equal(t, "a", passages[2].ID)
}

func TestRetrieveDeduplicatesByID(t *testing.T) {
	store := &fakeVectorStore{
		docs: []*schema.Document{
			doc("a", 0.9, "first", nil),
			doc("a", 0.8, "dup", nil),
			doc("b", 0.7, "second", nil),
		},
	}
	r := newTestRetriever(store, 0)

	passages, err := r.Retrieve(context.Background(), []float32{0.1}, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(passages))
	assert.Equal(t, "a", passages[0].ID)
	assert.Equal(t, "first", passages[0].Text)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	var docs []*schema.Document
	for i := 0; i < 10; i++ {
		docs = append(docs, doc(fmt.Sprintf("d%d", i), float64(i)/10.0, "chunk", nil))
	}
	store := &fakeVectorStore{docs: docs}
	r := newTestRetriever(store, 0)

	passages, err := r.Retrieve(context.Background(), []float32{0.1}, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(passages))
	assert.Equal(t, "d9", passages[0].ID)
}

func TestRetrieveFiltersByScoreThreshold(t *testing.T) {
	store := &fakeVectorStore{
		docs: []*schema.Document{
			doc("a", 0.9, "kept", nil),
			doc("b", 0.2, "dropped", nil),
		},
	}
	r := newTestRetriever(store, 0.5)

	passages, err := r.Retrieve(context.Background(), []float32{0.1}, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(passages))
	assert.Equal(t, "a", passages[0].ID)
}

func TestRetrieveMapsMetadata(t *testing.T) {
	store := &fakeVectorStore{
		docs: []*schema.Document{
			doc("a", 0.9, "content", map[string]interface{}{
				"title": "How to enroll",
				"url":   "https://forum.example.com/t/how-to-enroll/42",
			}),
			doc("b", 0.8, "no metadata", nil),
		},
	}
	r := newTestRetriever(store, 0)

	passages, err := r.Retrieve(context.Background(), []float32{0.1}, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(passages))
	assert.Equal(t, "How to enroll", passages[0].Title)
	assert.Equal(t, "https://forum.example.com/t/how-to-enroll/42", passages[0].URL)
	// metadata缺失时title/url为空，由打包阶段填默认值
	assert.Equal(t, "", passages[1].Title)
	assert.Equal(t, "", passages[1].URL)
}

func TestRetrieveSearchFailure(t *testing.T) {
	store := &fakeVectorStore{err: fmt.Errorf("connection refused")}
	r := newTestRetriever(store, 0)

	_, err := r.Retrieve(context.Background(), []float32{0.1}, 10)
	assert.Error(t, err)
	assert.Equal(t, errors.ErrRetrievalFailed, errors.CodeOf(err))
}
