package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "intern"

	// MatchModulePrefix 匹配模块
	MatchModulePrefix = "match"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// RateModulePrefix 限流模块
	RateModulePrefix = "rate"

	// EntityRecommendation 推荐结果实体
	EntityRecommendation = "recommendation"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityUpload 上传实体
	EntityUpload = "upload"

	// KeyMatchRecommendation 某份简历的岗位推荐缓存 (STRING, JSON)
	// 格式: intern:match:recommendation:{resumeID}
	KeyMatchRecommendation = AppPrefix + ":" + MatchModulePrefix + ":" + EntityRecommendation + ":%s"

	// KeyFileMD5Set 用户已上传文件的MD5集合 (SET)
	// 格式: intern:file:dedup_set:{userID}
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":%s"

	// KeyUploadRateLimit 上传限流计数器 (STRING)
	// 格式: intern:rate:upload:{clientIP}
	KeyUploadRateLimit = AppPrefix + ":" + RateModulePrefix + ":" + EntityUpload + ":%s"
)
