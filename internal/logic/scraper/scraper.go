package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"
	"github.com/virtualta/forumqa/core/file_store"
	"github.com/virtualta/forumqa/internal/dao"
	"github.com/virtualta/forumqa/internal/model/discourse"
	gormModel "github.com/virtualta/forumqa/internal/model/gorm"

	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
)

// TopicStore 话题簿记的最小接口，由 dao.ForumTopics 实现
type TopicStore interface {
	Exists(ctx context.Context, topicID int64) (bool, error)
	Create(ctx context.Context, topic *gormModel.ForumTopic) error
}

// Scraper 轮询Discourse JSON API抓取论坛话题
// 依赖一个已认证会话的Cookie，顺序抓取并在请求之间保持固定间隔
type Scraper struct {
	cfg        *config.ScraperConfig
	archive    file_store.ArchiveStore
	topics     TopicStore
	httpClient *http.Client
	dateFrom   time.Time
	dateTo     time.Time
	delay      time.Duration
}

// Result 一次抓取的统计
type Result struct {
	TopicsFound int `json:"topicsFound"` // 日期窗口内的话题数
	Downloaded  int `json:"downloaded"`  // 本次新下载的话题数
	Skipped     int `json:"skipped"`     // 已存在而跳过的话题数
	Failed      int `json:"failed"`      // 下载失败的话题数
}

func New(cfg *config.ScraperConfig, archive file_store.ArchiveStore, topics TopicStore) (*Scraper, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "discourse baseURL is required")
	}
	if cfg.CategorySlug == "" || cfg.CategoryID <= 0 {
		return nil, errors.New(errors.ErrInvalidParameter, "discourse category slug and id are required")
	}
	if topics == nil {
		topics = dao.ForumTopics
	}

	s := &Scraper{
		cfg:     cfg,
		archive: archive,
		topics:  topics,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Dial: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).Dial,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 20 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConnsPerHost:   2,
			},
		},
		delay: 500 * time.Millisecond,
	}

	if cfg.DelayMs > 0 {
		s.delay = time.Duration(cfg.DelayMs) * time.Millisecond
	}

	var err error
	if cfg.DateFrom != "" {
		s.dateFrom, err = time.Parse(time.RFC3339, cfg.DateFrom)
		if err != nil {
			return nil, errors.Newf(errors.ErrInvalidParameter, "invalid discourse.dateFrom: %v", err)
		}
	}
	if cfg.DateTo != "" {
		s.dateTo, err = time.Parse(time.RFC3339, cfg.DateTo)
		if err != nil {
			return nil, errors.Newf(errors.ErrInvalidParameter, "invalid discourse.dateTo: %v", err)
		}
	}

	return s, nil
}

// Run 执行一次完整抓取：翻页收集话题列表，逐个下载窗口内的话题
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	topics, err := s.collectTopics(ctx)
	if err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "Found %d total topics across all category pages", len(topics))

	result := &Result{}
	for _, meta := range topics {
		createdAt, err := parseDiscourseTime(meta.CreatedAt)
		if err != nil {
			g.Log().Warningf(ctx, "Topic %d has unparsable created_at %q, skipping", meta.ID, meta.CreatedAt)
			continue
		}
		if !s.inWindow(createdAt) {
			continue
		}
		result.TopicsFound++

		exists, err := s.topics.Exists(ctx, meta.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			g.Log().Debugf(ctx, "Topic %d already downloaded, skipping", meta.ID)
			result.Skipped++
			continue
		}

		if err := s.downloadTopic(ctx, meta, createdAt); err != nil {
			g.Log().Errorf(ctx, "Failed to download topic %d: %v", meta.ID, err)
			result.Failed++
			continue
		}
		result.Downloaded++

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	g.Log().Infof(ctx, "Scrape finished: %d in window, %d downloaded, %d skipped, %d failed",
		result.TopicsFound, result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}

// collectTopics 翻页拉取分类下的话题列表，直到出现空页
func (s *Scraper) collectTopics(ctx context.Context) ([]discourse.TopicSummary, error) {
	var all []discourse.TopicSummary

	for pageNum := 0; ; pageNum++ {
		url := fmt.Sprintf("%s/c/%s/%d.json?page=%d",
			strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.CategorySlug, s.cfg.CategoryID, pageNum)
		g.Log().Infof(ctx, "Fetching category page %d", pageNum)

		body, err := s.fetchJSON(ctx, url)
		if err != nil {
			if pageNum == 0 {
				return nil, err
			}
			// 翻页中途失败按到底处理
			g.Log().Warningf(ctx, "Failed to load category page %d: %v. Assuming no more pages", pageNum, err)
			break
		}

		var page discourse.CategoryPage
		if err := sonic.Unmarshal(body, &page); err != nil {
			return nil, errors.Newf(errors.ErrScrapeFailed, "failed to decode category page %d: %v", pageNum, err)
		}
		if len(page.TopicList.Topics) == 0 {
			break
		}
		all = append(all, page.TopicList.Topics...)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	return all, nil
}

// downloadTopic 下载单个话题的完整JSON，归档并记录到数据库
func (s *Scraper) downloadTopic(ctx context.Context, meta discourse.TopicSummary, createdAt time.Time) error {
	url := fmt.Sprintf("%s/t/%s/%d.json", strings.TrimRight(s.cfg.BaseURL, "/"), meta.Slug, meta.ID)
	g.Log().Infof(ctx, "Downloading topic JSON: %s", url)

	body, err := s.fetchJSON(ctx, url)
	if err != nil {
		return err
	}

	// 校验载荷可解析，避免归档残缺数据
	var topic discourse.Topic
	if err := sonic.Unmarshal(body, &topic); err != nil {
		return errors.Newf(errors.ErrScrapeFailed, "topic %d payload is not valid JSON: %v", meta.ID, err)
	}

	archivePath, err := s.archive.SaveTopicJSON(ctx, meta.ID, body)
	if err != nil {
		return err
	}

	return s.topics.Create(ctx, &gormModel.ForumTopic{
		TopicID:        meta.ID,
		Slug:           meta.Slug,
		Title:          meta.Title,
		TopicCreatedAt: createdAt,
		ArchivePath:    archivePath,
	})
}

// fetchJSON 发起带会话Cookie的GET请求并返回响应体
func (s *Scraper) fetchJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, errors.Newf(errors.ErrScrapeFailed, "failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Cookie != "" {
		req.Header.Set("Cookie", s.cfg.Cookie)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Newf(errors.ErrScrapeFailed, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Newf(errors.ErrTopicNotFound, "resource not found: %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrScrapeFailed, "unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Newf(errors.ErrScrapeFailed, "failed to read response body: %v", err)
	}
	return body, nil
}

// inWindow 判断话题创建时间是否落在配置的日期窗口内
func (s *Scraper) inWindow(t time.Time) bool {
	if !s.dateFrom.IsZero() && t.Before(s.dateFrom) {
		return false
	}
	if !s.dateTo.IsZero() && t.After(s.dateTo) {
		return false
	}
	return true
}

// parseDiscourseTime 解析Discourse的时间格式（带或不带毫秒）
func parseDiscourseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.000Z", v)
}

// LoadScraperConfig 读取抓取配置
func LoadScraperConfig(ctx context.Context) *config.ScraperConfig {
	return &config.ScraperConfig{
		BaseURL:      g.Cfg().MustGet(ctx, "discourse.baseURL", "").String(),
		CategorySlug: g.Cfg().MustGet(ctx, "discourse.categorySlug", "").String(),
		CategoryID:   g.Cfg().MustGet(ctx, "discourse.categoryId", 0).Int(),
		Cookie:       g.Cfg().MustGet(ctx, "discourse.cookie", "").String(),
		DateFrom:     g.Cfg().MustGet(ctx, "discourse.dateFrom", "").String(),
		DateTo:       g.Cfg().MustGet(ctx, "discourse.dateTo", "").String(),
		DelayMs:      g.Cfg().MustGet(ctx, "discourse.delayMs", 500).Int(),
	}
}
