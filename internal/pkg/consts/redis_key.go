package consts

const (
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	BlogTrendingKey       = "blog:trending:"
	BlogTrendingVerKey    = "blog:trending:ver"
	TokenRevokedKey       = "auth:revoked:"
)

const (
	ViewTotalsJobLock = "lock:job:view_totals"
)
