package model

import "time"

// Follow 关注关系。取消关注只置 IsActive=false，重新关注时刷新 CreatedAt
type Follow struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	FollowerID    uint64     `gorm:"not null;uniqueIndex:idx_follower_following" json:"follower_id"`
	FollowingID   uint64     `gorm:"not null;uniqueIndex:idx_follower_following;index:idx_following_active" json:"following_id"`
	IsActive      bool       `gorm:"not null;default:true;index:idx_following_active" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Follow) TableName() string {
	return "follows"
}
