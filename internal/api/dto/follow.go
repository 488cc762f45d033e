package dto

import "time"

type FollowStateDTO struct {
	FollowerID  uint64    `json:"follower_id"`
	FollowingID uint64    `json:"following_id"`
	Following   bool      `json:"following"`
	ChangedAt   time.Time `json:"changed_at"`
}

type FollowUserDTO struct {
	UserID     uint64    `json:"user_id"`
	Mutual     bool      `json:"mutual"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowPageDTO next_cursor 为空表示没有更多数据
type FollowPageDTO struct {
	Items      []*FollowUserDTO `json:"items"`
	NextCursor *uint64          `json:"next_cursor"`
}

type FollowPageQueryDTO struct {
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit"`
}

type FollowerStatsDTO struct {
	Period            string           `json:"period"`
	StartDate         *time.Time       `json:"start_date"`
	EndDate           time.Time        `json:"end_date"`
	BucketFormat      string           `json:"bucket_format"`
	FollowersGained   map[string]int64 `json:"followers_gained"`
	FollowersLost     map[string]int64 `json:"followers_lost"`
	TotalGained       int64            `json:"total_gained"`
	TotalLost         int64            `json:"total_lost"`
	NetChange         int64            `json:"net_change"`
	PreviousNetChange int64            `json:"previous_net_change"`
	PercentageChange  float64          `json:"percentage_change"`
	TotalFollowers    int64            `json:"total_followers"`
}
