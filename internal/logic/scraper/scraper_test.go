package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/virtualta/forumqa/core/config"
	gormModel "github.com/virtualta/forumqa/internal/model/gorm"
)

type fakeArchive struct {
	saved map[int64][]byte
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{saved: make(map[int64][]byte)}
}

func (f *fakeArchive) SaveTopicJSON(ctx context.Context, topicID int64, data []byte) (string, error) {
	f.saved[topicID] = data
	return fmt.Sprintf("topic_%d.json", topicID), nil
}

func (f *fakeArchive) LoadTopicJSON(ctx context.Context, topicID int64) ([]byte, error) {
	return f.saved[topicID], nil
}

func (f *fakeArchive) TopicExists(ctx context.Context, topicID int64) (bool, error) {
	_, ok := f.saved[topicID]
	return ok, nil
}

type fakeTopicStore struct {
	existing map[int64]bool
	created  []*gormModel.ForumTopic
}

func newFakeTopicStore(existing ...int64) *fakeTopicStore {
	m := make(map[int64]bool)
	for _, id := range existing {
		m[id] = true
	}
	return &fakeTopicStore{existing: m}
}

func (f *fakeTopicStore) Exists(ctx context.Context, topicID int64) (bool, error) {
	return f.existing[topicID], nil
}

func (f *fakeTopicStore) Create(ctx context.Context, topic *gormModel.ForumTopic) error {
	f.created = append(f.created, topic)
	f.existing[topic.TopicID] = true
	return nil
}

// newForumServer 模拟Discourse JSON API：一页分类列表 + 各话题详情
func newForumServer(t *testing.T, topics []map[string]interface{}) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/c/general/5.json", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page != "0" {
			// 第二页起为空，翻页终止
			fmt.Fprint(w, `{"topic_list":{"topics":[]}}`)
			return
		}
		fmt.Fprint(w, `{"topic_list":{"topics":[`)
		for i, topic := range topics {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"id":%d,"title":"%s","slug":"%s","created_at":"%s"}`,
				topic["id"], topic["title"], topic["slug"], topic["created_at"])
		}
		fmt.Fprint(w, `]}}`)
	})

	for _, topic := range topics {
		id := topic["id"].(int)
		slug := topic["slug"].(string)
		title := topic["title"].(string)
		mux.HandleFunc(fmt.Sprintf("/t/%s/%d.json", slug, id), func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":%d,"title":"%s","slug":"%s","post_stream":{"posts":[{"id":1,"post_number":1,"username":"alice","cooked":"<p>hello</p>"}]}}`,
				id, title, slug)
		})
	}

	return httptest.NewServer(mux)
}

func testConfig(baseURL string) *config.ScraperConfig {
	return &config.ScraperConfig{
		BaseURL:      baseURL,
		CategorySlug: "general",
		CategoryID:   5,
		DelayMs:      1,
	}
}

func TestScraperDownloadsNewTopics(t *testing.T) {
	server := newForumServer(t, []map[string]interface{}{
		{"id": 101, "title": "First topic", "slug": "first-topic", "created_at": "2025-03-01T10:00:00.000Z"},
		{"id": 102, "title": "Second topic", "slug": "second-topic", "created_at": "2025-03-02T11:30:00.000Z"},
	})
	defer server.Close()

	archive := newFakeArchive()
	topics := newFakeTopicStore()
	s, err := New(testConfig(server.URL), archive, topics)
	assert.NoError(t, err)

	result, err := s.Run(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, result.TopicsFound)
	assert.Equal(t, 2, result.Downloaded)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	// 原始JSON已归档，数据库记录已创建
	assert.Contains(t, archive.saved, int64(101))
	assert.Contains(t, archive.saved, int64(102))
	assert.Equal(t, 2, len(topics.created))
	assert.Equal(t, int64(101), topics.created[0].TopicID)
	assert.Equal(t, "First topic", topics.created[0].Title)
	assert.Equal(t, "first-topic", topics.created[0].Slug)
	assert.Equal(t, "topic_101.json", topics.created[0].ArchivePath)
}

func TestScraperSkipsExistingTopics(t *testing.T) {
	server := newForumServer(t, []map[string]interface{}{
		{"id": 101, "title": "First topic", "slug": "first-topic", "created_at": "2025-03-01T10:00:00.000Z"},
		{"id": 102, "title": "Second topic", "slug": "second-topic", "created_at": "2025-03-02T11:30:00.000Z"},
	})
	defer server.Close()

	archive := newFakeArchive()
	topics := newFakeTopicStore(101)
	s, err := New(testConfig(server.URL), archive, topics)
	assert.NoError(t, err)

	result, err := s.Run(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, result.TopicsFound)
	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, len(topics.created))
	assert.Equal(t, int64(102), topics.created[0].TopicID)
}

func TestScraperDateWindowFilter(t *testing.T) {
	server := newForumServer(t, []map[string]interface{}{
		{"id": 101, "title": "Too early", "slug": "too-early", "created_at": "2024-12-31T23:00:00.000Z"},
		{"id": 102, "title": "In window", "slug": "in-window", "created_at": "2025-03-02T11:30:00.000Z"},
		{"id": 103, "title": "Too late", "slug": "too-late", "created_at": "2025-07-01T00:00:00.000Z"},
	})
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.DateFrom = "2025-01-01T00:00:00Z"
	cfg.DateTo = "2025-06-30T23:59:59Z"

	archive := newFakeArchive()
	topics := newFakeTopicStore()
	s, err := New(cfg, archive, topics)
	assert.NoError(t, err)

	result, err := s.Run(context.Background())
	assert.NoError(t, err)

	// 窗口外的话题不计数也不下载
	assert.Equal(t, 1, result.TopicsFound)
	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 1, len(topics.created))
	assert.Equal(t, int64(102), topics.created[0].TopicID)
}

func TestScraperFailedTopicDoesNotAbortRun(t *testing.T) {
	// 102 的详情接口返回404，其他话题应继续下载
	mux := http.NewServeMux()
	mux.HandleFunc("/c/general/5.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") != "0" {
			fmt.Fprint(w, `{"topic_list":{"topics":[]}}`)
			return
		}
		fmt.Fprint(w, `{"topic_list":{"topics":[
			{"id":101,"title":"Good","slug":"good","created_at":"2025-03-01T10:00:00.000Z"},
			{"id":102,"title":"Deleted","slug":"deleted","created_at":"2025-03-02T10:00:00.000Z"}
		]}}`)
	})
	mux.HandleFunc("/t/good/101.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":101,"title":"Good","slug":"good","post_stream":{"posts":[]}}`)
	})
	mux.HandleFunc("/t/deleted/102.json", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	archive := newFakeArchive()
	topics := newFakeTopicStore()
	s, err := New(testConfig(server.URL), archive, topics)
	assert.NoError(t, err)

	result, err := s.Run(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, len(topics.created))
}

func TestScraperSendsSessionCookie(t *testing.T) {
	var gotCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("/c/general/5.json", func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"topic_list":{"topics":[]}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Cookie = "_t=abc123"

	s, err := New(cfg, newFakeArchive(), newFakeTopicStore())
	assert.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "_t=abc123", gotCookie)
}

func TestScraperRejectsInvalidConfig(t *testing.T) {
	_, err := New(nil, newFakeArchive(), newFakeTopicStore())
	assert.Error(t, err)

	_, err = New(&config.ScraperConfig{BaseURL: "http://forum.example.com"}, newFakeArchive(), newFakeTopicStore())
	assert.Error(t, err)

	_, err = New(&config.ScraperConfig{
		BaseURL:      "http://forum.example.com",
		CategorySlug: "general",
		CategoryID:   5,
		DateFrom:     "not-a-date",
	}, newFakeArchive(), newFakeTopicStore())
	assert.Error(t, err)
}
