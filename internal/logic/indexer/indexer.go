package indexer

import (
	"context"
	"sync"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/file_store"
	coreIndexer "github.com/virtualta/forumqa/core/indexer"
	"github.com/virtualta/forumqa/core/vector_store"
	"github.com/virtualta/forumqa/internal/dao"

	"github.com/gogf/gf/v2/frame/g"
)

var (
	once    sync.Once
	svc     *Service
	initErr error
)

// Service 驱动待索引话题的批处理任务
type Service struct {
	indexer *coreIndexer.Indexer
	archive file_store.ArchiveStore
	baseURL string
}

// Result 一次索引任务的统计
type Result struct {
	Indexed int `json:"indexed"` // 成功索引的话题数
	Failed  int `json:"failed"`  // 失败的话题数
	Chunks  int `json:"chunks"`  // 写入的chunk总数
}

// GetIndexSvr 获取索引服务单例
func GetIndexSvr(ctx context.Context) (*Service, error) {
	once.Do(func() {
		svc, initErr = initService(ctx)
	})
	return svc, initErr
}

func initService(ctx context.Context) (*Service, error) {
	cfg := LoadIndexerConfig(ctx)

	store, err := vector_store.GetVectorStore()
	if err != nil {
		return nil, err
	}

	archive, err := file_store.GetArchiveStore()
	if err != nil {
		return nil, err
	}

	ix, err := coreIndexer.New(ctx, cfg, store)
	if err != nil {
		return nil, err
	}

	if err := ix.EnsureCollection(ctx); err != nil {
		return nil, err
	}

	return &Service{
		indexer: ix,
		archive: archive,
		baseURL: g.Cfg().MustGet(ctx, "discourse.baseURL", "").String(),
	}, nil
}

// IndexPending 索引所有已抓取但未索引的话题
// 单个话题失败不中断整批，只计入失败数
func (s *Service) IndexPending(ctx context.Context) (*Result, error) {
	topics, err := dao.ForumTopics.ListUnindexed(ctx)
	if err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "Found %d unindexed topics", len(topics))

	result := &Result{}
	for _, topic := range topics {
		raw, err := s.archive.LoadTopicJSON(ctx, topic.TopicID)
		if err != nil {
			g.Log().Errorf(ctx, "Failed to load archive of topic %d: %v", topic.TopicID, err)
			result.Failed++
			continue
		}

		count, err := s.indexer.IndexTopic(ctx, s.baseURL, raw)
		if err != nil {
			g.Log().Errorf(ctx, "Failed to index topic %d: %v", topic.TopicID, err)
			result.Failed++
			continue
		}

		if err := dao.ForumTopics.MarkIndexed(ctx, topic.TopicID, count); err != nil {
			g.Log().Errorf(ctx, "Failed to mark topic %d indexed: %v", topic.TopicID, err)
			result.Failed++
			continue
		}

		result.Indexed++
		result.Chunks += count
	}

	g.Log().Infof(ctx, "Indexing finished: %d indexed, %d failed, %d chunks", result.Indexed, result.Failed, result.Chunks)
	return result, nil
}

// LoadIndexerConfig 读取索引配置
func LoadIndexerConfig(ctx context.Context) *config.IndexerConfig {
	return &config.IndexerConfig{
		Collection:     g.Cfg().MustGet(ctx, "milvus.collection", "").String(),
		APIKey:         g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
		BaseURL:        g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
		EmbeddingModel: g.Cfg().MustGet(ctx, "embedding.model", "").String(),
		EmbeddingDim:   g.Cfg().MustGet(ctx, "embedding.dim", 1536).Int(),
		ChunkSize:      g.Cfg().MustGet(ctx, "indexer.chunkSize", 1000).Int(),
		OverlapSize:    g.Cfg().MustGet(ctx, "indexer.overlapSize", 100).Int(),
	}
}
