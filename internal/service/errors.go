package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
	BadGateway          = 502
	ServiceUnavailable  = 503
	GatewayTimeout      = 504
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrDreamNotFound      = errors.New("梦境不存在")
	ErrCommentNotFound    = errors.New("评论不存在")
	ErrSysBoxNotFound     = errors.New("系统通知不存在")
	ErrFileNotSupported   = errors.New("不支持的文件类型")
	ErrForbidden          = errors.New("权限不足")
	ErrAnalysisInProgress = errors.New("梦境解析生成中，请稍后重试")
	ErrAIUpstreamFailure  = errors.New("AI 服务调用失败")
	ErrAIUpstreamTimeout  = errors.New("AI 服务响应超时，请稍后重试")
	ErrStoreUnavailable   = errors.New("存储服务不可用，请稍后重试")
	ErrFeatureDisabled    = errors.New("该功能未启用")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrUserNotFound:       NotFound,
	ErrDreamNotFound:      NotFound,
	ErrCommentNotFound:    NotFound,
	ErrSysBoxNotFound:     NotFound,
	ErrFileNotSupported:   BadRequest,
	ErrForbidden:          Forbidden,
	ErrAnalysisInProgress: Conflict,
	ErrAIUpstreamFailure:  BadGateway,
	ErrAIUpstreamTimeout:  GatewayTimeout,
	ErrStoreUnavailable:   ServiceUnavailable,
	ErrFeatureDisabled:    ServiceUnavailable,
	UnExpectedError:       InternalServerError,
}

// ErrorCode 按 errors.Is 匹配业务错误码，包装过的错误同样适用
func ErrorCode(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
