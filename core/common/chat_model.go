package common

import (
	"context"
	"sync"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
)

var (
	chatModelOnce   sync.Once
	visionModelOnce sync.Once
	chatModel       einoModel.BaseChatModel
	visionModel     einoModel.BaseChatModel
	chatModelErr    error
	visionModelErr  error
)

// GetChatModel 获取纯文本问答使用的ChatModel（懒加载单例）
func GetChatModel(ctx context.Context, cfg *config.GeneratorConfig) (einoModel.BaseChatModel, error) {
	chatModelOnce.Do(func() {
		chatModel, chatModelErr = newChatModel(ctx, cfg, cfg.Model)
	})
	return chatModel, chatModelErr
}

// GetVisionModel 获取带图片问答使用的ChatModel（懒加载单例）
// 未配置 visionModel 时回退到普通 chat 模型
func GetVisionModel(ctx context.Context, cfg *config.GeneratorConfig) (einoModel.BaseChatModel, error) {
	if cfg.VisionModel == "" {
		return GetChatModel(ctx, cfg)
	}
	visionModelOnce.Do(func() {
		visionModel, visionModelErr = newChatModel(ctx, cfg, cfg.VisionModel)
	})
	return visionModel, visionModelErr
}

// newChatModel 根据provider创建对应的ChatModel
func newChatModel(ctx context.Context, cfg *config.GeneratorConfig, modelName string) (einoModel.BaseChatModel, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrModelNotConfig, "chat model config is nil")
	}
	if cfg.APIKey == "" || cfg.BaseURL == "" || modelName == "" {
		return nil, errors.New(errors.ErrModelNotConfig, "chat apiKey/baseURL/model must be configured")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	temperature := cfg.Temperature

	switch cfg.Provider {
	case "qwen":
		return qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       modelName,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
	default:
		// openai 及兼容接口
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       modelName,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
	}
}
