package forumqa

import (
	"context"

	v1 "github.com/virtualta/forumqa/api/forumqa/v1"

	"github.com/gogf/gf/v2/frame/g"
)

const rootPage = `<!DOCTYPE html>
<html>
<head><title>Forum QA API</title></head>
<body>
<h1>Forum QA API</h1>
<p>Retrieval-augmented question answering over the forum knowledge base.</p>
<ul>
<li><code>POST /ask</code> - ask a question, citations returned as links</li>
<li><code>POST /api/</code> - ask a question, citations returned as sources</li>
<li><code>GET /health</code> - health check</li>
</ul>
</body>
</html>`

// Health 健康检查
func (c *ControllerV1) Health(ctx context.Context, req *v1.HealthReq) (res *v1.HealthRes, err error) {
	return &v1.HealthRes{
		Status:  "ok",
		Message: "RAG API is running",
	}, nil
}

// Root 信息页
func (c *ControllerV1) Root(ctx context.Context, req *v1.RootReq) (res *v1.RootRes, err error) {
	r := g.RequestFromCtx(ctx)
	r.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	r.Response.Write(rootPage)
	return nil, nil
}
