package indexer

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestTransformerSplitsLongPost(t *testing.T) {
	ctx := context.Background()

	// 构造一个远超chunk大小的帖子正文
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("这一行是帖子里的一段回复内容，用来验证长文本会被切开。\n")
	}
	docs := []*schema.Document{
		{
			Content: sb.String(),
			MetaData: map[string]interface{}{
				"topic_id": "42",
			},
		},
	}

	transformer, err := NewTransformer(ctx, 100, 20)
	assert.NoError(t, err)
	assert.NotNil(t, transformer)

	chunks, err := transformer.Transform(ctx, docs)
	assert.NoError(t, err)
	assert.Greater(t, len(chunks), 1, "long post should be split into multiple chunks")

	t.Logf("Transformed %d chunks", len(chunks))
	for i, c := range chunks {
		t.Logf("Chunk %d length: %d", i, len(c.Content))
	}
}

func TestTransformerShortPostStaysWhole(t *testing.T) {
	ctx := context.Background()

	docs := []*schema.Document{
		{Content: "短帖子，一段话就够了。"},
	}

	transformer, err := NewTransformer(ctx, 1000, 100)
	assert.NoError(t, err)

	chunks, err := transformer.Transform(ctx, docs)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(chunks))
	assert.Equal(t, "短帖子，一段话就够了。", chunks[0].Content)
}

func TestTransformerDefaultsOnInvalidSizes(t *testing.T) {
	ctx := context.Background()

	// 非法参数回退到默认值，不报错
	transformer, err := NewTransformer(ctx, 0, -1)
	assert.NoError(t, err)
	assert.NotNil(t, transformer)
}
