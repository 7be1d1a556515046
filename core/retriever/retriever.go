package retriever

import (
	"context"
	"sort"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"
	"github.com/virtualta/forumqa/core/rag"
	"github.com/virtualta/forumqa/core/vector_store"

	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// VectorRetriever 基于向量库的检索器
type VectorRetriever struct {
	store      vector_store.VectorStore
	collection string
	score      float64 // 分数阈值，低于该值的结果被过滤
}

func New(store vector_store.VectorStore, cfg *config.Config) *VectorRetriever {
	return &VectorRetriever{
		store:      store,
		collection: cfg.Collection,
		score:      cfg.Score,
	}
}

// Retrieve 向量检索
// 返回按分数降序、去重后的至多topK个片段
func (r *VectorRetriever) Retrieve(ctx context.Context, vector []float32, topK int) ([]*rag.Passage, error) {
	docs, err := r.store.SearchByVector(ctx, r.collection, vector, topK)
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "vector search failed: %v", err)
	}

	docs = common.RemoveDuplicates(docs, func(doc *schema.Document) string {
		return doc.ID
	})

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Score() > docs[j].Score()
	})
	if len(docs) > topK {
		docs = docs[:topK]
	}

	passages := make([]*rag.Passage, 0, len(docs))
	for _, doc := range docs {
		if doc.Score() < r.score {
			g.Log().Debugf(ctx, "score less: %v, related: %v", doc.Score(), doc.Content)
			continue
		}
		passages = append(passages, toPassage(doc))
	}

	return passages, nil
}

// toPassage 将检索到的文档转换为片段，title/url来自metadata
func toPassage(doc *schema.Document) *rag.Passage {
	p := &rag.Passage{
		ID:    doc.ID,
		Score: doc.Score(),
		Text:  doc.Content,
	}
	if doc.MetaData != nil {
		if v, ok := doc.MetaData["title"].(string); ok {
			p.Title = v
		}
		if v, ok := doc.MetaData["url"].(string); ok {
			p.URL = v
		}
	}
	return p
}
