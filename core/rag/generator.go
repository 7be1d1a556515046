package rag

import (
	"context"
	"strings"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ModelGenerator 基于eino ChatModel的答案生成器
type ModelGenerator struct {
	cfg *config.GeneratorConfig
}

func NewGenerator(cfg *config.GeneratorConfig) *ModelGenerator {
	return &ModelGenerator{cfg: cfg}
}

// Generate 生成答案
// 系统消息 = 固定提示词 + 打包上下文；用户消息 = 问题 + 可选的base64图片
// 有图片时使用vision模型，否则使用纯文本模型
func (m *ModelGenerator) Generate(ctx context.Context, query string, packed *PackedContext, images []string) (string, error) {
	var (
		cm  einoModel.BaseChatModel
		err error
	)
	if len(images) > 0 {
		cm, err = common.GetVisionModel(ctx, m.cfg)
	} else {
		cm, err = common.GetChatModel(ctx, m.cfg)
	}
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "failed to get chat model: %v", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(SystemPromptTemplate + packed.ContextText),
		common.BuildUserMessage(query, images),
	}

	resp, err := cm.Generate(ctx, messages)
	if err != nil {
		return "", errors.Newf(errors.ErrGenerationFailed, "chat completion failed: %v", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", errors.New(errors.ErrGenerationFailed, "model returned empty answer")
	}
	return answer, nil
}
