package consts

const (
	MimePrefixImage = "image"
)

// 上下文键
const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

// 分页
const (
	DefaultDreamPageSize   = 20
	MaxDreamPageSize       = 50
	DefaultCommentPageSize = 50
	MaxCommentPageSize     = 100
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
	DefaultNotifyPageSize  = 20
)

// 排行榜时间范围
const (
	TimeRangeAll   = "all"
	TimeRangeWeek  = "week"
	TimeRangeMonth = "month"
)

// 上传限制
const (
	MaxUploadSize    = 10 << 20
	MaxImageEdge     = 2048
	ImageJPEGQuality = 85
)
