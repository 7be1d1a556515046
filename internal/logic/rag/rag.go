package rag

import (
	"context"
	"sync"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"
	"github.com/virtualta/forumqa/core/rag"
	"github.com/virtualta/forumqa/core/retriever"
	"github.com/virtualta/forumqa/core/vector_store"

	"github.com/gogf/gf/v2/frame/g"
)

var (
	once    sync.Once
	ragSvr  *rag.Service
	initErr error
)

// GetRagSvr 获取问答服务单例
func GetRagSvr(ctx context.Context) (*rag.Service, error) {
	once.Do(func() {
		ragSvr, initErr = initRagService(ctx)
	})
	return ragSvr, initErr
}

// initRagService 从配置文件装配整条问答流水线
func initRagService(ctx context.Context) (*rag.Service, error) {
	cfg := LoadRagConfig(ctx)
	genCfg := LoadGeneratorConfig(ctx)

	store, err := vector_store.GetVectorStore()
	if err != nil {
		return nil, err
	}

	embedder, err := common.NewEmbedding(cfg, cfg.EmbeddingDim)
	if err != nil {
		return nil, err
	}

	if cfg.Collection == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "milvus.collection is required")
	}

	ret := retriever.New(store, cfg)
	gen := rag.NewGenerator(genCfg)

	g.Log().Infof(ctx, "RAG service initialized (collection=%s, topK=%d, tokenBudget=%d)",
		cfg.Collection, cfg.TopK, cfg.TokenBudget)
	return rag.New(embedder, ret, gen, cfg), nil
}

// LoadRagConfig 读取问答流水线配置
func LoadRagConfig(ctx context.Context) *config.Config {
	return &config.Config{
		Collection:     g.Cfg().MustGet(ctx, "milvus.collection", "").String(),
		APIKey:         g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
		BaseURL:        g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
		EmbeddingModel: g.Cfg().MustGet(ctx, "embedding.model", "").String(),
		EmbeddingDim:   g.Cfg().MustGet(ctx, "embedding.dim", 1536).Int(),
		TopK:           g.Cfg().MustGet(ctx, "rag.topK", 7).Int(),
		Score:          g.Cfg().MustGet(ctx, "rag.score", 0.0).Float64(),
		TokenBudget:    g.Cfg().MustGet(ctx, "rag.tokenBudget", 4096).Int(),
		ReservedTokens: g.Cfg().MustGet(ctx, "rag.reservedTokens", 500).Int(),
	}
}

// LoadGeneratorConfig 读取答案生成配置
func LoadGeneratorConfig(ctx context.Context) *config.GeneratorConfig {
	return &config.GeneratorConfig{
		Provider:    g.Cfg().MustGet(ctx, "chat.provider", "openai").String(),
		APIKey:      g.Cfg().MustGet(ctx, "chat.apiKey", "").String(),
		BaseURL:     g.Cfg().MustGet(ctx, "chat.baseURL", "").String(),
		Model:       g.Cfg().MustGet(ctx, "chat.model", "").String(),
		VisionModel: g.Cfg().MustGet(ctx, "chat.visionModel", "").String(),
		Temperature: float32(g.Cfg().MustGet(ctx, "chat.temperature", 0.7).Float64()),
		MaxTokens:   g.Cfg().MustGet(ctx, "chat.maxTokens", 1000).Int(),
	}
}
