package model

import "time"

// BlogView 博客每日阅读计数，(blog_id, view_date) 唯一
type BlogView struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	BlogID    uint64    `gorm:"not null;uniqueIndex:idx_blog_date" json:"blog_id"`
	ViewDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_blog_date;index:idx_view_date" json:"view_date"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
}

func (BlogView) TableName() string {
	return "blog_views"
}
