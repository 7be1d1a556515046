package discourse

// Discourse JSON API 的载荷结构，只声明用到的字段

// CategoryPage /c/<slug>/<id>.json?page=N 的响应
type CategoryPage struct {
	TopicList TopicList `json:"topic_list"`
}

// TopicList 分类下的话题列表
type TopicList struct {
	Topics []TopicSummary `json:"topics"`
}

// TopicSummary 话题列表中的条目
type TopicSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"` // RFC3339
}

// Topic /t/<slug>/<id>.json 的响应
type Topic struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	CreatedAt  string     `json:"created_at"`
	PostStream PostStream `json:"post_stream"`
}

// PostStream 话题的帖子流
type PostStream struct {
	Posts []Post `json:"posts"`
}

// Post 单个帖子，Cooked是渲染后的HTML正文
type Post struct {
	ID         int64  `json:"id"`
	PostNumber int    `json:"post_number"`
	Username   string `json:"username"`
	CreatedAt  string `json:"created_at"`
	Cooked     string `json:"cooked"`
}
