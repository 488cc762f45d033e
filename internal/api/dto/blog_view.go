package dto

// RecordViewDTO 记录阅读后的当日计数与累计总数
type RecordViewDTO struct {
	BlogID     uint64 `json:"blog_id"`
	ViewDate   string `json:"view_date"`
	ViewCount  int64  `json:"view_count"`
	TotalViews int64  `json:"total_views"`
}

// TrendingQueryDTO 热门排行查询，days 取值 1~30
type TrendingQueryDTO struct {
	BlogFilterDTO
	Days  int `form:"days"`
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

type TrendingBlogDTO struct {
	BlogDTO
	WindowViews int64 `json:"window_views"`
}

type MostWatchedQueryDTO struct {
	CategoryID    *uint64 `form:"category_id"`
	SubCategoryID *uint64 `form:"subcategory_id"`
	Limit         int     `form:"limit"`
}

// GroupedViewsQueryDTO group_by: daily | monthly | yearly，period 取值 1~365
type GroupedViewsQueryDTO struct {
	GroupBy string `form:"group_by"`
	Period  int    `form:"period"`
	BlogIDs string `form:"blog_ids"`
}

type ViewBucketDTO struct {
	Period     string `json:"period"`
	TotalViews int64  `json:"total_views"`
}

type GroupedViewsDTO struct {
	StartDate          string           `json:"start_date"`
	EndDate            string           `json:"end_date"`
	GroupBy            string           `json:"group_by"`
	Views              []*ViewBucketDTO `json:"views"`
	TotalViewsCurrent  int64            `json:"total_views_current"`
	TotalViewsPrevious int64            `json:"total_views_previous"`
	PercentageChange   float64          `json:"percentage_change"`
}
