package forumqa

import (
	"context"

	v1 "github.com/virtualta/forumqa/api/forumqa/v1"
	"github.com/virtualta/forumqa/core/rag"
	ragLogic "github.com/virtualta/forumqa/internal/logic/rag"

	"github.com/gogf/gf/v2/frame/g"
)

// Ask 公开问答接口，引用以links形式返回
func (c *ControllerV1) Ask(ctx context.Context, req *v1.AskReq) (res *v1.AskRes, err error) {
	g.Log().Infof(ctx, "Ask request received - Question: %s, Images: %d", req.Question, len(req.Image))

	result := c.answer(ctx, req.Question, req.Image)

	links := make([]v1.Link, 0, len(result.Sources))
	for _, s := range result.Sources {
		links = append(links, v1.Link{URL: s.URL, Text: s.Title})
	}

	return &v1.AskRes{
		Answer: result.Answer,
		Links:  links,
	}, nil
}

// ApiAsk 公开问答接口，引用以sources形式返回
func (c *ControllerV1) ApiAsk(ctx context.Context, req *v1.ApiAskReq) (res *v1.ApiAskRes, err error) {
	g.Log().Infof(ctx, "ApiAsk request received - Question: %s, Images: %d", req.Question, len(req.Image))

	result := c.answer(ctx, req.Question, req.Image)

	sources := make([]v1.Source, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, v1.Source{Title: s.Title, URL: s.URL})
	}

	return &v1.ApiAskRes{
		Answer:  result.Answer,
		Sources: sources,
	}, nil
}

// answer 执行问答流水线
// 服务装配失败也归一为道歉答案，公开接口永远返回200和完整结构
func (c *ControllerV1) answer(ctx context.Context, question string, images []string) *rag.AnswerResult {
	svc, err := ragLogic.GetRagSvr(ctx)
	if err != nil {
		g.Log().Errorf(ctx, "RAG service unavailable: %v", err)
		return &rag.AnswerResult{
			Answer:  rag.InternalApology,
			Sources: []rag.Citation{},
		}
	}
	return svc.Answer(ctx, question, images)
}
