package forumqa

// ControllerV1 问答服务的HTTP控制器
type ControllerV1 struct{}

func NewV1() *ControllerV1 {
	return &ControllerV1{}
}
