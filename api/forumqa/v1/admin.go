package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type ScrapeReq struct {
	g.Meta   `path:"/api/v1/scrape" method:"post" tags:"admin" summary:"Run the forum scrape as a background job"`
	DateFrom string `json:"dateFrom"` // 覆盖配置的抓取起始日期（RFC3339，可选）
	DateTo   string `json:"dateTo"`   // 覆盖配置的抓取截止日期（RFC3339，可选）
}

type ScrapeRes struct {
	g.Meta  `mime:"application/json"`
	Started bool `json:"started"`
}

type IndexReq struct {
	g.Meta `path:"/api/v1/index" method:"post" tags:"admin" summary:"Index pending scraped topics as a background job"`
}

type IndexRes struct {
	g.Meta  `mime:"application/json"`
	Started bool `json:"started"`
}

type TopicsReq struct {
	g.Meta `path:"/api/v1/topics" method:"get" tags:"admin" summary:"List scraped topics and their index status"`
}

// TopicItem 话题及其索引状态
type TopicItem struct {
	TopicID    int64  `json:"topicId"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	CreatedAt  string `json:"createdAt"`
	Indexed    bool   `json:"indexed"`
	ChunkCount int    `json:"chunkCount"`
}

type TopicsRes struct {
	g.Meta `mime:"application/json"`
	Topics []TopicItem `json:"topics"`
	Total  int         `json:"total"`
}
