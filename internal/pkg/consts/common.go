package consts

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 网关注入的可信身份头
const (
	HeaderUserID            = "X-User-Id"
	HeaderIdentityAssertion = "X-Identity-Assertion"
	HeaderTraceID           = "X-Trace-ID"
)
