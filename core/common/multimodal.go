package common

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// BuildUserMessage 构建用户消息
// 无图片时返回普通文本消息，有图片时构建多模态消息
// images 中的元素为base64编码的图片（可以带 data: 前缀，也可以是裸base64）
func BuildUserMessage(text string, images []string) *schema.Message {
	if len(images) == 0 {
		return &schema.Message{
			Role:    schema.User,
			Content: text,
		}
	}

	parts := make([]schema.ChatMessagePart, 0, len(images)+1)
	if text != "" {
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeText,
			Text: text,
		})
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			continue
		}
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:    NormalizeImageDataURL(img),
				Detail: schema.ImageURLDetailAuto,
			},
		})
	}

	return &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	}
}

// NormalizeImageDataURL 将base64图片规范化为 data URL
// 已经是 data: 前缀的保持原样，裸base64按jpeg处理
func NormalizeImageDataURL(img string) string {
	img = strings.TrimSpace(img)
	if strings.HasPrefix(img, "data:") {
		return img
	}
	return "data:image/jpeg;base64," + img
}
