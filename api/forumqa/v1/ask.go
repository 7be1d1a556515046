package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// Link /ask 响应中的引用链接
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Source /api/ 响应中的引用来源
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type AskReq struct {
	g.Meta   `path:"/ask" method:"post" tags:"qa" summary:"Ask a question" no_wrap_resp:"true"`
	Question string   `json:"question" v:"required"`
	Image    []string `json:"image"` // base64编码的图片，可带data URL前缀
}

type AskRes struct {
	g.Meta `mime:"application/json"`
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}

type ApiAskReq struct {
	g.Meta   `path:"/api/" method:"post" tags:"qa" summary:"Ask a question (sources shape)" no_wrap_resp:"true"`
	Question string   `json:"question" v:"required"`
	Image    []string `json:"image"`
}

type ApiAskRes struct {
	g.Meta  `mime:"application/json"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type HealthReq struct {
	g.Meta `path:"/health" method:"get" tags:"qa" summary:"Health check" no_wrap_resp:"true"`
}

type HealthRes struct {
	g.Meta  `mime:"application/json"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type RootReq struct {
	g.Meta `path:"/" method:"get" tags:"qa" summary:"Service info page" no_wrap_resp:"true"`
}

type RootRes struct {
	g.Meta `mime:"text/html"`
}
