package vector_store

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// VectorStoreType 向量数据库类型
type VectorStoreType string

const (
	VectorStoreTypeMilvus VectorStoreType = "milvus"
)

// VectorStoreConfig 向量数据库配置
type VectorStoreConfig struct {
	Type     VectorStoreType // 向量数据库类型
	Client   interface{}     // 客户端实例
	Database string          // 数据库名称
	Dim      int             // 向量维度
}

// VectorStore 向量数据库接口
type VectorStore interface {
	// CreateCollection 创建集合（含HNSW索引并加载到内存）
	CreateCollection(ctx context.Context, collectionName string) error

	// CollectionExists 检查集合是否存在
	CollectionExists(ctx context.Context, collectionName string) (bool, error)

	// DeleteCollection 删除集合
	DeleteCollection(ctx context.Context, collectionName string) error

	// InsertVectors 插入向量数据，chunks与vectors一一对应
	InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error)

	// DeleteByTopicID 删除某个话题的所有chunks
	DeleteByTopicID(ctx context.Context, collectionName string, topicID string) error

	// SearchByVector 向量相似度搜索，返回按分数降序的文档
	SearchByVector(ctx context.Context, collectionName string, vector []float32, topK int) ([]*schema.Document, error)
}
