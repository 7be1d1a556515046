package milvus

import (
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"
)

// ChunkCollectionSchema 论坛内容分片集合的标准schema
type ChunkCollectionSchema struct {
	// Id 每个chunk的唯一标识（主键）
	Id string `milvus:"id,varchar,256,primary_key"`

	// Text 分片正文
	Text string `milvus:"text,varchar,65535"`

	// Vector 分片的embedding向量
	Vector []float32 `milvus:"vector,float_vector"`

	// TopicId 分片所属的论坛话题ID
	TopicId string `milvus:"topic_id,varchar,256"`

	// Metadata 附加信息（title/url等），JSON格式
	Metadata string `milvus:"metadata,json"`
}

// GetFields 返回集合的Milvus字段定义，dim为向量维度
func (ChunkCollectionSchema) GetFields(dim int) []*entity.Field {
	return []*entity.Field{
		{
			Name:        "id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			PrimaryKey:  true,
			AutoID:      false,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "text",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "65535"},
			Description: "Chunk content",
		},
		{
			Name:        "vector",
			DataType:    entity.FieldTypeFloatVector,
			TypeParams:  map[string]string{"dim": fmt.Sprintf("%d", dim)},
			Description: "Chunk embedding vector",
		},
		{
			Name:        "topic_id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			Description: "Forum topic ID (foreign key)",
		},
		{
			Name:        "metadata",
			DataType:    entity.FieldTypeJSON,
			Description: "Additional metadata (JSON)",
		},
	}
}

// GetStandardCollectionFields 获取标准分片集合字段定义
func GetStandardCollectionFields(dim int) []*entity.Field {
	return ChunkCollectionSchema{}.GetFields(dim)
}
