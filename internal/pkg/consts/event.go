package consts

// 领域事件类型
const (
	EventDreamCreated   = "dream.created"
	EventDreamUpdated   = "dream.updated"
	EventDreamDeleted   = "dream.deleted"
	EventDreamLiked     = "dream.liked"
	EventDreamFavorited = "dream.favorited"
	EventDreamCommented = "dream.commented"
	EventDreamRated     = "dream.rated"
	EventDreamAnalyzed  = "dream.analyzed"
)

// 系统通知类型
const (
	NotifyTypeLike     int8 = 1
	NotifyTypeFavorite int8 = 2
	NotifyTypeComment  int8 = 3
	NotifyTypeRating   int8 = 4
	NotifyTypeAnalysis int8 = 5
)
