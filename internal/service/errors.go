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
	InternalServerError = 500
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrInvalidGroupBy      = errors.New("不支持的分组方式")
	ErrInvalidPeriod       = errors.New("不支持的统计周期")
	ErrInvalidBlogStatus   = errors.New("不支持的博客状态")
	ErrBlogNotFound        = errors.New("博客不存在")
	ErrBlogNotPublished    = errors.New("博客未发布")
	ErrNotBlogOwner        = errors.New("无权操作该博客")
	ErrNoBlogsForUser      = errors.New("该用户暂无博客")
	ErrCategoryNotFound    = errors.New("分类不存在")
	ErrSubCategoryNotFound = errors.New("子分类不存在")
	ErrUserFollowSelf      = errors.New("用户不能关注自己")
	ErrActionDuplicate     = errors.New("重复操作")
	ErrTokenMissing        = errors.New("Token 缺失或格式错误")
	ErrTokenInvalid        = errors.New("Token 无效或已过期")
	ErrIdentityRejected    = errors.New("身份校验未通过")
	ErrIdentityUnavailable = errors.New("身份服务不可用")
	ErrServiceNotFound     = errors.New("服务不存在")
	ErrUpstreamUnavailable = errors.New("下游服务不可用")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrInvalidGroupBy:      BadRequest,
	ErrInvalidPeriod:       BadRequest,
	ErrInvalidBlogStatus:   BadRequest,
	ErrBlogNotFound:        NotFound,
	ErrBlogNotPublished:    Conflict,
	ErrNotBlogOwner:        Forbidden,
	ErrNoBlogsForUser:      NotFound,
	ErrCategoryNotFound:    NotFound,
	ErrSubCategoryNotFound: NotFound,
	ErrUserFollowSelf:      BadRequest,
	ErrActionDuplicate:     BadRequest,
	ErrTokenMissing:        Unauthorized,
	ErrTokenInvalid:        Unauthorized,
	ErrIdentityRejected:    Unauthorized,
	ErrIdentityUnavailable: ServiceUnavailable,
	ErrServiceNotFound:     NotFound,
	ErrUpstreamUnavailable: ServiceUnavailable,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}

// CodeOf 解析错误对应的业务码，支持被 %w 包装的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return InternalServerError, false
}
