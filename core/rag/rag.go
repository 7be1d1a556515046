package rag

import (
	"context"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/errors"

	"github.com/gogf/gf/v2/frame/g"
)

// 失败时的固定道歉文案
const (
	GenerationApology = "I'm sorry, I encountered an error while trying to generate a response."
	InternalApology   = "I'm sorry, an internal error occurred in the RAG system."
)

const (
	defaultTopK           = 7
	defaultTokenBudget    = 4096
	defaultReservedTokens = 500
)

// Service RAG问答编排器
// 线性流水线：向量化 → 检索 → 上下文打包 → 答案生成
// 任何阶段失败都被归一为道歉答案，不会向调用方抛错
type Service struct {
	embedder  Embedder
	retriever Retriever
	generator Generator

	topK           int
	tokenBudget    int
	reservedTokens int
}

func New(embedder Embedder, retriever Retriever, generator Generator, cfg *config.Config) *Service {
	s := &Service{
		embedder:       embedder,
		retriever:      retriever,
		generator:      generator,
		topK:           defaultTopK,
		tokenBudget:    defaultTokenBudget,
		reservedTokens: defaultReservedTokens,
	}
	if cfg != nil {
		if cfg.TopK > 0 {
			s.topK = cfg.TopK
		}
		if cfg.TokenBudget > 0 {
			s.tokenBudget = cfg.TokenBudget
		}
		if cfg.ReservedTokens > 0 {
			s.reservedTokens = cfg.ReservedTokens
		}
	}
	return s
}

// Answer 回答问题
// 返回值永远是完整的结果：Answer非空，Sources非nil
func (s *Service) Answer(ctx context.Context, query string, images []string) *AnswerResult {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		g.Log().Errorf(ctx, "embedding stage failed: %v", err)
		return fallback(err)
	}

	passages, err := s.retriever.Retrieve(ctx, vector, s.topK)
	if err != nil {
		g.Log().Errorf(ctx, "retrieval stage failed: %v", err)
		return fallback(err)
	}

	packed := Pack(query, passages, s.tokenBudget, s.reservedTokens)

	answer, err := s.generator.Generate(ctx, query, packed, images)
	if err != nil {
		g.Log().Errorf(ctx, "generation stage failed: %v", err)
		return fallback(err)
	}

	sources := packed.Sources
	if sources == nil {
		sources = []Citation{}
	}
	return &AnswerResult{Answer: answer, Sources: sources}
}

// fallback 根据错误阶段选择道歉文案，来源列表固定为空
func fallback(err error) *AnswerResult {
	answer := InternalApology
	if errors.CodeOf(err) == errors.ErrGenerationFailed {
		answer = GenerationApology
	}
	return &AnswerResult{Answer: answer, Sources: []Citation{}}
}
