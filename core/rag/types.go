package rag

import (
	"context"
)

// Passage 检索得到的文档片段
type Passage struct {
	ID    string  // chunk 唯一标识
	Score float64 // 相似度分数
	Text  string  // 片段正文
	Title string  // 来源话题标题
	URL   string  // 来源话题链接
}

// Citation 答案引用的来源
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PackedContext 打包后的上下文
// Sources 与被选入上下文的片段一一对应，顺序一致
type PackedContext struct {
	ContextText string
	Sources     []Citation
}

// AnswerResult 问答结果，对外的唯一契约
// Answer 永远是非空字符串（失败时为固定的道歉文案）
// Sources 永远非nil（可能为空）
type AnswerResult struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
}

// Embedder 文本向量化
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever 向量检索，按分数降序返回至多topK个片段
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, topK int) ([]*Passage, error)
}

// Generator 基于打包上下文生成答案
type Generator interface {
	Generate(ctx context.Context, query string, packed *PackedContext, images []string) (string, error)
}
