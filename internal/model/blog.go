package model

import "time"

type Blog struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"type:varchar(20);not null;default:draft;index:idx_status_created" json:"status"` // draft | published
	TotalViews    int64     `gorm:"not null;default:0;index:idx_total_views" json:"total_views"`
	AuthorID      uint64    `gorm:"not null;index:idx_author_id" json:"author_id"`
	CategoryID    uint64    `gorm:"not null;index:idx_category_id" json:"category_id"`
	SubCategoryID *uint64   `gorm:"column:subcategory_id;index:idx_subcategory_id" json:"subcategory_id"`
	CreatedAt     time.Time `gorm:"index:idx_status_created" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联关系
	Category    Category     `gorm:"foreignKey:CategoryID;references:ID" json:"category"`
	SubCategory *SubCategory `gorm:"foreignKey:SubCategoryID;references:ID" json:"subcategory"`
	Tags        []Tag        `gorm:"many2many:blog_tags;joinForeignKey:BlogID;joinReferences:TagID" json:"tags"`
}

func (Blog) TableName() string {
	return "blogs"
}
