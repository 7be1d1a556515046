package rag

import (
	"fmt"
	"strings"

	"github.com/virtualta/forumqa/core/common"
)

// SystemPromptTemplate 问答的固定系统提示词
// 打包后的上下文会追加在它后面
const SystemPromptTemplate = `You are a helpful assistant that answers questions based on the provided text context and any given images.
If the answer is not available in the provided text context, politely state that you don't have enough information.
If images are provided, analyze them to help answer the question.
Avoid making up answers.

Context:`

const docBlockFormat = "--- Document from %s (Source: %s) ---\n%s"

// Pack 贪心前缀打包：按检索顺序依次尝试把片段放入token预算
// 第一个放不下的片段出现时立即停止，不跳过继续
// 预算耗尽不是错误，返回的上下文可能为空
func Pack(query string, passages []*Passage, tokenBudget, reservedTokens int) *PackedContext {
	runningTokens := common.EstimateTokens(SystemPromptTemplate+query) + reservedTokens

	var blocks []string
	sources := make([]Citation, 0, len(passages))

	for _, p := range passages {
		title := p.Title
		if title == "" {
			title = "No Title"
		}
		url := p.URL
		if url == "" {
			url = "#"
		}

		block := fmt.Sprintf(docBlockFormat, title, url, p.Text)
		blockTokens := common.EstimateTokens(block)

		if runningTokens+blockTokens >= tokenBudget {
			break
		}
		blocks = append(blocks, block)
		sources = append(sources, Citation{Title: title, URL: url})
		runningTokens += blockTokens
	}

	return &PackedContext{
		ContextText: strings.Join(blocks, "\n\n"),
		Sources:     sources,
	}
}
