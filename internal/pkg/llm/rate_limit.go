package llm

import (
	"golang.org/x/sync/semaphore"
)

// 进程内并发上限，防止突发请求打满上游配额
var (
	TextWeight  = int64(5)
	TextSem     = semaphore.NewWeighted(TextWeight)
	ImageWeight = int64(2)
	ImageSem    = semaphore.NewWeighted(ImageWeight)
)
