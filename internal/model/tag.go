package model

import "time"

type Tag struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tag_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

type BlogTag struct {
	BlogID uint64 `gorm:"primaryKey" json:"blog_id"`
	TagID  uint64 `gorm:"primaryKey;index:idx_tag_id" json:"tag_id"`
}

func (BlogTag) TableName() string {
	return "blog_tags"
}
