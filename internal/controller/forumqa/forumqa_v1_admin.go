package forumqa

import (
	"context"
	"time"

	v1 "github.com/virtualta/forumqa/api/forumqa/v1"
	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/file_store"
	"github.com/virtualta/forumqa/internal/dao"
	indexerLogic "github.com/virtualta/forumqa/internal/logic/indexer"
	scraperLogic "github.com/virtualta/forumqa/internal/logic/scraper"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
)

// Scrape 启动论坛抓取后台任务
func (c *ControllerV1) Scrape(ctx context.Context, req *v1.ScrapeReq) (res *v1.ScrapeRes, err error) {
	archive, err := file_store.GetArchiveStore()
	if err != nil {
		return nil, err
	}

	cfg := scraperLogic.LoadScraperConfig(ctx)
	if req.DateFrom != "" {
		cfg.DateFrom = req.DateFrom
	}
	if req.DateTo != "" {
		cfg.DateTo = req.DateTo
	}

	s, err := scraperLogic.New(cfg, archive, nil)
	if err != nil {
		return nil, err
	}

	// 抓取可能耗时数分钟，放到后台执行
	jobCtx := gctx.New()
	common.SafeGo(jobCtx, "forum-scrape", func() {
		if _, err := s.Run(jobCtx); err != nil {
			g.Log().Errorf(jobCtx, "Scrape job failed: %v", err)
		}
	})

	return &v1.ScrapeRes{Started: true}, nil
}

// Index 启动索引后台任务
func (c *ControllerV1) Index(ctx context.Context, req *v1.IndexReq) (res *v1.IndexRes, err error) {
	svc, err := indexerLogic.GetIndexSvr(ctx)
	if err != nil {
		return nil, err
	}

	jobCtx := gctx.New()
	common.SafeGo(jobCtx, "forum-index", func() {
		if _, err := svc.IndexPending(jobCtx); err != nil {
			g.Log().Errorf(jobCtx, "Index job failed: %v", err)
		}
	})

	return &v1.IndexRes{Started: true}, nil
}

// Topics 列出已抓取话题及索引状态
func (c *ControllerV1) Topics(ctx context.Context, req *v1.TopicsReq) (res *v1.TopicsRes, err error) {
	topics, err := dao.ForumTopics.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]v1.TopicItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, v1.TopicItem{
			TopicID:    t.TopicID,
			Title:      t.Title,
			Slug:       t.Slug,
			CreatedAt:  t.TopicCreatedAt.Format(time.RFC3339),
			Indexed:    t.Indexed,
			ChunkCount: t.ChunkCount,
		})
	}

	return &v1.TopicsRes{
		Topics: items,
		Total:  len(items),
	}, nil
}
