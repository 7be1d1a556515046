package indexer

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func makeChunks(n int) []*schema.Document {
	chunks := make([]*schema.Document, n)
	for i := range chunks {
		chunks[i] = &schema.Document{
			ID:      fmt.Sprintf("chunk-%d", i),
			Content: fmt.Sprintf("content %d", i),
		}
	}
	return chunks
}

func TestCreateBatches(t *testing.T) {
	tests := []struct {
		name        string
		chunkCount  int
		batchSize   int
		wantBatches int
	}{
		{"不足一批", 10, 30, 1},
		{"刚好整除", 60, 30, 2},
		{"有余数", 65, 30, 3},
		{"单个", 1, 30, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := createBatches(makeChunks(tt.chunkCount), tt.batchSize)
			assert.Equal(t, tt.wantBatches, len(batches))

			// 批次覆盖全部chunk且不重叠
			total := 0
			for i, b := range batches {
				assert.Equal(t, i, b.Index)
				assert.Equal(t, total, b.Start)
				assert.Equal(t, len(b.Chunks), b.End-b.Start)
				assert.Equal(t, len(b.Chunks), len(b.Texts))
				for j, c := range b.Chunks {
					assert.Equal(t, c.Content, b.Texts[j])
				}
				total += len(b.Chunks)
			}
			assert.Equal(t, tt.chunkCount, total)
		})
	}
}

func TestCreateBatchesEmpty(t *testing.T) {
	batches := createBatches(nil, 30)
	assert.Equal(t, 0, len(batches))
}
