package repository

import (
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordedView 一次阅读记录后的当日计数与累计总数
type RecordedView struct {
	BlogID     uint64
	ViewDate   time.Time
	ViewCount  int64
	TotalViews int64
}

// BlogViewSum 窗口内单篇博客的阅读合计
type BlogViewSum struct {
	BlogID uint64
	Views  int64
}

// DailyViewSum 某日所有目标博客的阅读合计
type DailyViewSum struct {
	ViewDate time.Time
	Total    int64
}

type BlogViewRepo interface {
	// RecordView guard 在事务内对博客状态做校验，返回错误则整体回滚
	RecordView(ctx context.Context, blogID uint64, day time.Time, guard func(blog *model.Blog) error) (*RecordedView, error)
	SumViewsByBlog(ctx context.Context, since time.Time, filter *BlogFilter, offset, limit int) ([]*BlogViewSum, error)
	SumViewsByDate(ctx context.Context, blogIDs []uint64, start, end time.Time) ([]*DailyViewSum, error)
	SumViews(ctx context.Context, blogIDs []uint64, start, end time.Time) (int64, error)
	ResyncTotal(ctx context.Context, blogID uint64) (int64, error)
	ListDriftedBlogIDs(ctx context.Context, limit int) ([]uint64, error)
}

type blogViewRepoImpl struct {
	db *gorm.DB
}

func NewBlogViewRepository(db *gorm.DB) BlogViewRepo {
	return &blogViewRepoImpl{db: db}
}

// RecordView 当日计数 upsert +1，随后按全部计数行求和回写 total_views
func (r *blogViewRepoImpl) RecordView(
	ctx context.Context,
	blogID uint64,
	day time.Time,
	guard func(blog *model.Blog) error,
) (*RecordedView, error) {
	res := &RecordedView{BlogID: blogID, ViewDate: day}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog model.Blog
		if err := tx.Select("id", "status").First(&blog, blogID).Error; err != nil {
			return err
		}
		if guard != nil {
			if err := guard(&blog); err != nil {
				return err
			}
		}

		view := &model.BlogView{BlogID: blogID, ViewDate: day, ViewCount: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "blog_id"}, {Name: "view_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count": gorm.Expr("view_count + ?", 1),
			}),
		}).Create(view).Error
		if err != nil {
			return err
		}

		err = tx.Model(&model.BlogView{}).
			Select("view_count").
			Where("blog_id = ? AND view_date = ?", blogID, day).
			Scan(&res.ViewCount).Error
		if err != nil {
			return err
		}

		res.TotalViews, err = resyncTotal(tx, blogID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SumViewsByBlog 已发布博客在 since 之后的阅读量排行
func (r *blogViewRepoImpl) SumViewsByBlog(
	ctx context.Context,
	since time.Time,
	filter *BlogFilter,
	offset, limit int,
) ([]*BlogViewSum, error) {
	rows := make([]*BlogViewSum, 0)
	err := r.db.WithContext(ctx).
		Model(&model.BlogView{}).
		Select("blog_views.blog_id AS blog_id, SUM(blog_views.view_count) AS views").
		Joins("JOIN blogs ON blogs.id = blog_views.blog_id").
		Where("blog_views.view_date >= ?", since).
		Where("blogs.status = ?", consts.BlogStatusPublished).
		Scopes(BlogFilterScope(filter)).
		Group("blog_views.blog_id").
		Order("views DESC").
		Order("blog_views.blog_id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumViewsByDate 按日汇总 [start, end) 内的阅读量
func (r *blogViewRepoImpl) SumViewsByDate(ctx context.Context, blogIDs []uint64, start, end time.Time) ([]*DailyViewSum, error) {
	rows := make([]*DailyViewSum, 0)
	if len(blogIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.BlogView{}).
		Select("view_date, SUM(view_count) AS total").
		Where("blog_id IN ?", blogIDs).
		Where("view_date >= ? AND view_date < ?", start, end).
		Group("view_date").
		Order("view_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumViews [start, end) 内的阅读总量
func (r *blogViewRepoImpl) SumViews(ctx context.Context, blogIDs []uint64, start, end time.Time) (int64, error) {
	if len(blogIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.BlogView{}).
		Select("COALESCE(SUM(view_count), 0)").
		Where("blog_id IN ?", blogIDs).
		Where("view_date >= ? AND view_date < ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *blogViewRepoImpl) ResyncTotal(ctx context.Context, blogID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		total, err = resyncTotal(tx, blogID)
		return err
	})
	return total, err
}

// ListDriftedBlogIDs total_views 与计数行之和不一致的博客
func (r *blogViewRepoImpl) ListDriftedBlogIDs(ctx context.Context, limit int) ([]uint64, error) {
	ids := make([]uint64, 0)
	sums := r.db.Model(&model.BlogView{}).
		Select("blog_id, SUM(view_count) AS total").
		Group("blog_id")
	err := r.db.WithContext(ctx).
		Model(&model.Blog{}).
		Joins("LEFT JOIN (?) AS sums ON sums.blog_id = blogs.id", sums).
		Where("blogs.total_views <> COALESCE(sums.total, 0)").
		Order("blogs.id ASC").
		Limit(limit).
		Pluck("blogs.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func resyncTotal(tx *gorm.DB, blogID uint64) (int64, error) {
	var total int64
	err := tx.Model(&model.BlogView{}).
		Select("COALESCE(SUM(view_count), 0)").
		Where("blog_id = ?", blogID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	err = tx.Model(&model.Blog{ID: blogID}).UpdateColumn("total_views", total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
