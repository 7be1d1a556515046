package indexer

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/virtualta/forumqa/core/common"
	"github.com/virtualta/forumqa/core/errors"
	"github.com/virtualta/forumqa/core/vector_store"

	"github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// VectorStoreEmbedder 向量存储嵌入器（支持重试和并发）
type VectorStoreEmbedder struct {
	embedding   *common.CustomEmbedder
	vectorStore vector_store.VectorStore
}

// BatchInfo 批次信息
type BatchInfo struct {
	Index  int
	Start  int
	End    int
	Chunks []*schema.Document
	Texts  []string
}

// BatchResult 批次结果
type BatchResult struct {
	BatchIndex int
	ChunkIds   []string
	Error      error
}

// NewVectorStoreEmbedder 创建向量存储嵌入器
func NewVectorStoreEmbedder(conf common.EmbeddingConfig, dim int, vectorStore vector_store.VectorStore) (*VectorStoreEmbedder, error) {
	embeddingIns, err := common.NewEmbedding(conf, dim)
	if err != nil {
		return nil, errors.Newf(errors.ErrEmbeddingFailed, "failed to create embedding instance: %v", err)
	}

	return &VectorStoreEmbedder{
		embedding:   embeddingIns,
		vectorStore: vectorStore,
	}, nil
}

// EmbedAndStore 嵌入向量并存储
func (v *VectorStoreEmbedder) EmbedAndStore(ctx context.Context, collectionName string, chunks []*schema.Document) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	const (
		batchSize    = 30               // 每批30个文本（避免API限制）
		concurrency  = 3                // 3个并发（避免API限流）
		maxRetries   = 5                // 最大重试次数
		initialDelay = 1 * time.Second  // 初始延迟
		maxDelay     = 30 * time.Second // 最大延迟
		multiplier   = 2.0              // 指数退避倍数
	)

	g.Log().Infof(ctx, "Starting vectorization of %d chunks (BatchSize: %d, Concurrency: %d)",
		len(chunks), batchSize, concurrency)

	batches := createBatches(chunks, batchSize)

	resultChan := make(chan BatchResult, len(batches))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, batch := range batches {
		wg.Add(1)
		go func(b BatchInfo) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			vectors, err := v.embedTextsWithRetry(ctx, b.Texts, maxRetries, initialDelay, maxDelay, multiplier)
			if err != nil {
				resultChan <- BatchResult{
					BatchIndex: b.Index,
					Error:      errors.Newf(errors.ErrEmbeddingFailed, "batch %d failed: %v", b.Index, err),
				}
				return
			}

			chunkIds, err := v.vectorStore.InsertVectors(ctx, collectionName, b.Chunks, vectors)
			if err != nil {
				resultChan <- BatchResult{
					BatchIndex: b.Index,
					Error:      errors.Newf(errors.ErrVectorInsert, "batch %d storage failed: %v", b.Index, err),
				}
				return
			}

			resultChan <- BatchResult{
				BatchIndex: b.Index,
				ChunkIds:   chunkIds,
			}
		}(batch)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	allChunkIds := make([]string, len(chunks))
	batchResults := make([]BatchResult, len(batches))

	for result := range resultChan {
		if result.Error != nil {
			return nil, result.Error
		}
		batchResults[result.BatchIndex] = result
	}

	// 按批次顺序组装结果
	currentIndex := 0
	for _, batch := range batches {
		result := batchResults[batch.Index]
		copy(allChunkIds[currentIndex:currentIndex+len(result.ChunkIds)], result.ChunkIds)
		currentIndex += len(result.ChunkIds)
	}

	g.Log().Infof(ctx, "Vectorization completed, total chunks: %d", len(allChunkIds))
	return allChunkIds, nil
}

func createBatches(chunks []*schema.Document, batchSize int) []BatchInfo {
	var batches []BatchInfo
	batchCount := int(math.Ceil(float64(len(chunks)) / float64(batchSize)))

	for i := 0; i < batchCount; i++ {
		start := i * batchSize
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batchChunks := chunks[start:end]
		texts := make([]string, len(batchChunks))
		for j, chunk := range batchChunks {
			texts[j] = chunk.Content
		}

		batches = append(batches, BatchInfo{
			Index:  i,
			Start:  start,
			End:    end,
			Chunks: batchChunks,
			Texts:  texts,
		})
	}

	return batches
}

// embedTextsWithRetry 带指数退避重试的文本向量化
func (v *VectorStoreEmbedder) embedTextsWithRetry(ctx context.Context, texts []string, maxRetries int, initialDelay, maxDelay time.Duration, multiplier float64) ([][]float32, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.Log().Infof(ctx, "Retrying embedding attempt %d/%d after %v delay",
				attempt, maxRetries, delay)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * multiplier)
				if delay > maxDelay {
					delay = maxDelay
				}
			}
		}

		vectors, err := v.embedding.EmbedStrings(ctx, texts)
		if err != nil {
			lastErr = err
			g.Log().Warningf(ctx, "Embedding attempt %d failed: %v", attempt+1, err)
			continue
		}

		return vectors, nil
	}

	return nil, errors.Newf(errors.ErrEmbeddingFailed, "embedding failed after %d retries, last error: %v", maxRetries, lastErr)
}
