package model

import "time"

type Category struct {
	ID            uint64        `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name" json:"name"`
	CreatedAt     time.Time     `json:"created_at"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID;references:ID" json:"subcategories"`
}

func (Category) TableName() string {
	return "categories"
}

type SubCategory struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subcategory_name" json:"name"`
	CategoryID uint64    `gorm:"not null;uniqueIndex:idx_subcategory_name" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SubCategory) TableName() string {
	return "subcategories"
}
