package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
)

// ValidateConfiguration validates all required configuration items
func ValidateConfiguration(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	// 验证 Milvus 配置
	milvusAddress := g.Cfg().MustGet(ctx, "milvus.address", "").String()
	if milvusAddress == "" {
		missingConfigs = append(missingConfigs, "milvus.address")
	}
	milvusCollection := g.Cfg().MustGet(ctx, "milvus.collection", "").String()
	if milvusCollection == "" {
		missingConfigs = append(missingConfigs, "milvus.collection")
	}

	// 验证 Embedding 配置
	embeddingAPIKey := g.Cfg().MustGet(ctx, "embedding.apiKey", "").String()
	embeddingBaseURL := g.Cfg().MustGet(ctx, "embedding.baseURL", "").String()
	embeddingModel := g.Cfg().MustGet(ctx, "embedding.model", "").String()

	if embeddingAPIKey == "" {
		missingConfigs = append(missingConfigs, "embedding.apiKey")
	}
	if embeddingBaseURL == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}
	if embeddingModel == "" {
		missingConfigs = append(missingConfigs, "embedding.model")
	}

	// 验证 Chat 配置
	chatAPIKey := g.Cfg().MustGet(ctx, "chat.apiKey", "").String()
	chatBaseURL := g.Cfg().MustGet(ctx, "chat.baseURL", "").String()
	chatModel := g.Cfg().MustGet(ctx, "chat.model", "").String()
	visionModel := g.Cfg().MustGet(ctx, "chat.visionModel", "").String()

	if chatAPIKey == "" {
		missingConfigs = append(missingConfigs, "chat.apiKey")
	}
	if chatBaseURL == "" {
		missingConfigs = append(missingConfigs, "chat.baseURL")
	}
	if chatModel == "" {
		missingConfigs = append(missingConfigs, "chat.model")
	}
	if visionModel == "" {
		warnings = append(warnings, "chat.visionModel is not set, image questions will use chat.model")
	}

	// 验证 Discourse 抓取配置
	discourseBaseURL := g.Cfg().MustGet(ctx, "discourse.baseURL", "").String()
	if discourseBaseURL == "" {
		warnings = append(warnings, "discourse.baseURL is not set, the scrape endpoint will be unavailable")
	}

	// 验证数据库配置
	dbHost := g.Cfg().MustGet(ctx, "database.default.host", "").String()
	dbPort := g.Cfg().MustGet(ctx, "database.default.port", "").String()
	dbUser := g.Cfg().MustGet(ctx, "database.default.user", "").String()
	dbName := g.Cfg().MustGet(ctx, "database.default.name", "").String()

	if dbHost == "" {
		missingConfigs = append(missingConfigs, "database.default.host")
	}
	if dbPort == "" {
		missingConfigs = append(missingConfigs, "database.default.port")
	}
	if dbUser == "" {
		missingConfigs = append(missingConfigs, "database.default.user")
	}
	if dbName == "" {
		missingConfigs = append(missingConfigs, "database.default.name")
	}

	// 输出警告信息
	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	// 检查是否有缺失的必需配置
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")

	return nil
}

// Config RAG服务配置
type Config struct {
	Collection string // Milvus collection 名称
	// embedding 时使用
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	EmbeddingDim   int // 向量维度，必须与 collection 的维度一致
	// 检索参数
	TopK  int     // 默认返回结果数量（默认 7）
	Score float64 // 默认分数阈值（默认 0）
	// 生成参数
	TokenBudget    int // 提示词 token 预算（默认 4096）
	ReservedTokens int // 为模型回答预留的 token（默认 500）
}

// GeneratorConfig 答案生成专用配置
type GeneratorConfig struct {
	Provider    string  // 模型提供方: openai/qwen（默认 openai）
	APIKey      string  // API密钥
	BaseURL     string  // API基础URL
	Model       string  // 纯文本问题使用的模型
	VisionModel string  // 带图片问题使用的模型（为空时回退到 Model）
	Temperature float32 // 采样温度（默认 0.7）
	MaxTokens   int     // 回答最大 token 数（默认 1000）
}

// IndexerConfig Indexer专用配置
type IndexerConfig struct {
	Collection     string // Milvus collection 名称
	APIKey         string // API密钥（用于调用embedding服务）
	BaseURL        string // API基础URL（用于调用embedding服务）
	EmbeddingModel string // Embedding模型名称
	EmbeddingDim   int    // 向量维度
	ChunkSize      int    // 文档分块大小（默认 1000）
	OverlapSize    int    // 分块重叠大小（默认 100）
}

// ScraperConfig Discourse抓取配置
type ScraperConfig struct {
	BaseURL      string // Discourse 站点地址
	CategorySlug string // 分类 slug，如 courses/tds-kb
	CategoryID   int    // 分类 ID
	Cookie       string // 已认证会话的 Cookie 头
	DateFrom     string // 只抓取此日期之后创建的话题（RFC3339，可为空）
	DateTo       string // 只抓取此日期之前创建的话题（RFC3339，可为空）
	DelayMs      int    // 相邻请求之间的间隔毫秒数（默认 500）
}

// Config 实现 embedding config 接口
func (c *Config) GetAPIKey() string         { return c.APIKey }
func (c *Config) GetBaseURL() string        { return c.BaseURL }
func (c *Config) GetEmbeddingModel() string { return c.EmbeddingModel }

// IndexerConfig 实现 embedding config 接口
func (c *IndexerConfig) GetAPIKey() string         { return c.APIKey }
func (c *IndexerConfig) GetBaseURL() string        { return c.BaseURL }
func (c *IndexerConfig) GetEmbeddingModel() string { return c.EmbeddingModel }
