package dto

import "time"

// BlogBaseDTO 创建与更新博客的请求体，tags 为逗号分隔的标签串
type BlogBaseDTO struct {
	Title          string  `json:"title" binding:"required" validate:"min=1,max=255"`
	Content        string  `json:"content" binding:"required" validate:"min=1"`
	Status         string  `json:"status" validate:"omitempty,oneof=draft published"`
	CategoryID     *uint64 `json:"category_id"`
	NewCategory    string  `json:"new_category" validate:"max=100"`
	SubCategoryID  *uint64 `json:"subcategory_id"`
	NewSubCategory string  `json:"new_subcategory" validate:"max=100"`
	Tags           string  `json:"tags" validate:"max=500"`
}

type BlogStatusDTO struct {
	Status string `json:"status" binding:"required" validate:"oneof=draft published"`
}

type BlogDTO struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Status          string    `json:"status"`
	TotalViews      int64     `json:"total_views"`
	AuthorID        uint64    `json:"author_id"`
	CategoryID      uint64    `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	SubCategoryID   *uint64   `json:"subcategory_id"`
	SubCategoryName string    `json:"subcategory_name,omitempty"`
	TagList         []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BlogFilterDTO 列表与排行共用的查询条件
type BlogFilterDTO struct {
	CategoryID    *uint64 `form:"category_id"`
	SubCategoryID *uint64 `form:"subcategory_id"`
	Author        string  `form:"author"`
	TagIDs        string  `form:"tag_ids"`
	Search        string  `form:"search"`
}

// BlogListDTO 最新博客列表查询，日期格式 YYYY-MM-DD
type BlogListDTO struct {
	BlogFilterDTO
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	MinViews  *int64 `form:"min_views"`
}

type CategoryDTO struct {
	ID            uint64            `json:"id"`
	Name          string            `json:"name"`
	SubCategories []*SubCategoryDTO `json:"subcategories"`
}

type SubCategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
