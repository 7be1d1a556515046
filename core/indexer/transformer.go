package indexer

import (
	"context"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
)

// NewTransformer 创建文档分割器
// 论坛帖子是纯文本（HTML已在解析阶段转掉），统一用递归分割
func NewTransformer(ctx context.Context, chunkSize, overlapSize int) (document.Transformer, error) {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlapSize < 0 {
		overlapSize = 100
	}
	config := &recursive.Config{
		ChunkSize:   chunkSize,   // 每段内容大小
		OverlapSize: overlapSize, // 重叠大小
		Separators:  []string{"\n", "。", "?", "？", "!", "！"},
	}
	return recursive.NewSplitter(ctx, config)
}
