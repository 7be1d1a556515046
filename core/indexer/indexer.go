package indexer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"
	"github.com/virtualta/forumqa/core/vector_store"
	"github.com/virtualta/forumqa/internal/model/discourse"

	"github.com/bytedance/sonic"
	htmlparser "github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Indexer 把抓取到的论坛话题转成向量库里的分片
// 流程：解析帖子HTML → 清洗 → 分块 → 批量embedding → 写入Milvus
type Indexer struct {
	cfg         *config.IndexerConfig
	store       vector_store.VectorStore
	embedder    *VectorStoreEmbedder
	transformer document.Transformer
	htmlParser  parser.Parser
}

func New(ctx context.Context, cfg *config.IndexerConfig, store vector_store.VectorStore) (*Indexer, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "indexer config is nil")
	}
	if cfg.Collection == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "indexer collection is required")
	}

	embedder, err := NewVectorStoreEmbedder(cfg, cfg.EmbeddingDim, store)
	if err != nil {
		return nil, err
	}

	trans, err := NewTransformer(ctx, cfg.ChunkSize, cfg.OverlapSize)
	if err != nil {
		return nil, errors.Newf(errors.ErrIndexingFailed, "failed to create splitter: %v", err)
	}

	hp, err := htmlparser.NewParser(ctx, &htmlparser.Config{})
	if err != nil {
		return nil, errors.Newf(errors.ErrIndexingFailed, "failed to create html parser: %v", err)
	}

	return &Indexer{
		cfg:         cfg,
		store:       store,
		embedder:    embedder,
		transformer: trans,
		htmlParser:  hp,
	}, nil
}

// EnsureCollection 确保集合存在，不存在则创建
func (ix *Indexer) EnsureCollection(ctx context.Context) error {
	exists, err := ix.store.CollectionExists(ctx, ix.cfg.Collection)
	if err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to check collection: %v", err)
	}
	if exists {
		return nil
	}
	if err := ix.store.CreateCollection(ctx, ix.cfg.Collection); err != nil {
		return errors.Newf(errors.ErrVectorStoreInit, "failed to create collection: %v", err)
	}
	return nil
}

// IndexTopic 索引一个话题的原始JSON载荷，返回写入的chunk数量
// 重复索引时先删除该话题的旧chunks
func (ix *Indexer) IndexTopic(ctx context.Context, baseURL string, raw []byte) (int, error) {
	var topic discourse.Topic
	if err := sonic.Unmarshal(raw, &topic); err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "failed to decode topic payload: %v", err)
	}
	if topic.ID == 0 {
		return 0, errors.New(errors.ErrIndexingFailed, "topic payload has no id")
	}

	topicID := strconv.FormatInt(topic.ID, 10)
	topicURL := fmt.Sprintf("%s/t/%s/%d", strings.TrimRight(baseURL, "/"), topic.Slug, topic.ID)

	docs, err := ix.buildDocuments(ctx, &topic, topicID, topicURL)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		g.Log().Infof(ctx, "Topic %s has no indexable content, skipping", topicID)
		return 0, nil
	}

	chunks, err := ix.transformer.Transform(ctx, docs)
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "failed to split topic %s: %v", topicID, err)
	}

	// 重新索引前清掉旧数据
	if err := ix.store.DeleteByTopicID(ctx, ix.cfg.Collection, topicID); err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "failed to purge old chunks of topic %s: %v", topicID, err)
	}

	ids, err := ix.embedder.EmbedAndStore(ctx, ix.cfg.Collection, chunks)
	if err != nil {
		return 0, err
	}

	g.Log().Infof(ctx, "Indexed topic %s (%s): %d posts, %d chunks", topicID, topic.Title, len(docs), len(ids))
	return len(ids), nil
}

// buildDocuments 把话题的每个帖子转成一个待分块的文档
func (ix *Indexer) buildDocuments(ctx context.Context, topic *discourse.Topic, topicID, topicURL string) ([]*schema.Document, error) {
	docs := make([]*schema.Document, 0, len(topic.PostStream.Posts))

	for _, post := range topic.PostStream.Posts {
		text, err := ix.htmlToText(ctx, post.Cooked)
		if err != nil {
			g.Log().Warningf(ctx, "Failed to parse post %d of topic %s: %v", post.PostNumber, topicID, err)
			continue
		}

		cleaned, err := common.CleanString(text, common.ProfileEmbedding)
		if err != nil {
			g.Log().Warningf(ctx, "Failed to clean post %d of topic %s: %v", post.PostNumber, topicID, err)
			continue
		}
		if cleaned == "" {
			continue
		}

		docs = append(docs, &schema.Document{
			Content: cleaned,
			MetaData: map[string]any{
				"topic_id":    topicID,
				"title":       topic.Title,
				"url":         topicURL,
				"post_number": post.PostNumber,
				"username":    post.Username,
			},
		})
	}

	return docs, nil
}

// htmlToText 把帖子的cooked HTML还原为纯文本
func (ix *Indexer) htmlToText(ctx context.Context, cooked string) (string, error) {
	if strings.TrimSpace(cooked) == "" {
		return "", nil
	}
	parsed, err := ix.htmlParser.Parse(ctx, strings.NewReader(cooked))
	if err != nil {
		return "", err
	}
	var parts []string
	for _, d := range parsed {
		if d.Content != "" {
			parts = append(parts, d.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}
