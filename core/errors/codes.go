package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1002 // 内部错误
	ErrNotFound         ErrCode = 1003 // 资源未找到
	ErrAlreadyExists    ErrCode = 1004 // 资源已存在
	ErrOperationFailed  ErrCode = 1005 // 操作失败

	// 模型相关 2000-2999
	ErrEmbeddingFailed  ErrCode = 2001 // Embedding失败
	ErrGenerationFailed ErrCode = 2002 // 答案生成失败
	ErrModelNotConfig   ErrCode = 2003 // 模型未配置

	// 检索相关 3000-3999
	ErrRetrievalFailed ErrCode = 3001 // 向量检索失败

	// 抓取/索引相关 4000-4999
	ErrScrapeFailed   ErrCode = 4001 // 论坛抓取失败
	ErrTopicNotFound  ErrCode = 4002 // 话题未找到
	ErrIndexingFailed ErrCode = 4003 // 索引失败
	ErrArchiveFailed  ErrCode = 4004 // 原始数据归档失败

	// 向量数据库 5000-5999
	ErrVectorStoreInit ErrCode = 5001 // 向量库初始化失败
	ErrVectorSearch    ErrCode = 5002 // 向量搜索失败
	ErrVectorInsert    ErrCode = 5003 // 向量插入失败
	ErrVectorDelete    ErrCode = 5004 // 向量删除失败

	// 数据库相关 6000-6999
	ErrDatabaseQuery  ErrCode = 6001 // 数据库查询失败
	ErrDatabaseInsert ErrCode = 6002 // 数据库插入失败
	ErrDatabaseUpdate ErrCode = 6003 // 数据库更新失败
	ErrDatabaseInit   ErrCode = 6004 // 数据库初始化失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 400
	case ErrNotFound, ErrTopicNotFound:
		return 404
	case ErrAlreadyExists:
		return 409
	default:
		return 500
	}
}
