package repository

import (
	"Booklet/internal/model"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogFilter 博客列表与排行共用的筛选条件，零值字段不参与筛选
type BlogFilter struct {
	Status        string
	AuthorID      *uint64
	Author        string // author_id 子串匹配
	CategoryID    *uint64
	SubCategoryID *uint64
	TagIDs        []uint64 // 命中任一标签
	TagName       string
	Search        string // 标题或正文，不区分大小写
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	MinViews      *int64
}

// BlogRelations 创建/更新博客时需要在同一事务内落库的关联数据
type BlogRelations struct {
	NewCategory    string
	NewSubCategory string
	TagNames       []string
}

type BlogRepo interface {
	CreateBlog(ctx context.Context, blog *model.Blog, rel *BlogRelations) error
	UpdateBlog(ctx context.Context, blog *model.Blog, rel *BlogRelations) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	DeleteBlog(ctx context.Context, id uint64) error
	GetBlog(ctx context.Context, id uint64) (*model.Blog, error)
	GetBlogsByIDs(ctx context.Context, ids []uint64) ([]*model.Blog, error)
	ListBlogs(ctx context.Context, filter *BlogFilter, offset, limit int) ([]*model.Blog, error)
	ListMostWatched(ctx context.Context, filter *BlogFilter, limit int) ([]*model.Blog, error)
	GetBlogIDsByAuthor(ctx context.Context, authorID uint64) ([]uint64, error)
}

type blogRepoImpl struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepo {
	return &blogRepoImpl{
		db: db,
	}
}

// CreateBlog 分类、标签、博客与标签关联在同一事务内创建
func (s *blogRepoImpl) CreateBlog(ctx context.Context, blog *model.Blog, rel *BlogRelations) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagIDs, err := resolveRelations(tx, blog, rel)
		if err != nil {
			return err
		}
		if err = tx.Omit(clause.Associations).Create(blog).Error; err != nil {
			return err
		}
		return linkTags(tx, blog.ID, tagIDs)
	})
}

// UpdateBlog 覆盖博客字段并替换标签集合
func (s *blogRepoImpl) UpdateBlog(ctx context.Context, blog *model.Blog, rel *BlogRelations) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagIDs, err := resolveRelations(tx, blog, rel)
		if err != nil {
			return err
		}
		err = tx.Model(&model.Blog{ID: blog.ID}).
			Select("title", "content", "status", "category_id", "subcategory_id", "updated_at").
			Updates(map[string]interface{}{
				"title":          blog.Title,
				"content":        blog.Content,
				"status":         blog.Status,
				"category_id":    blog.CategoryID,
				"subcategory_id": blog.SubCategoryID,
				"updated_at":     time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}
		if err = tx.Where("blog_id = ?", blog.ID).Delete(&model.BlogTag{}).Error; err != nil {
			return err
		}
		return linkTags(tx, blog.ID, tagIDs)
	})
}

func (s *blogRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return s.db.WithContext(ctx).Model(&model.Blog{ID: id}).Update("status", status).Error
}

// DeleteBlog 删除阅读计数、标签关联与博客本身
func (s *blogRepoImpl) DeleteBlog(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&model.BlogView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&model.BlogTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Blog{}, id).Error
	})
}

// GetBlog 不存在时返回 nil, nil
func (s *blogRepoImpl) GetBlog(ctx context.Context, id uint64) (*model.Blog, error) {
	var blog model.Blog
	err := s.preload(s.db.WithContext(ctx)).First(&blog, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

func (s *blogRepoImpl) GetBlogsByIDs(ctx context.Context, ids []uint64) ([]*model.Blog, error) {
	blogs := make([]*model.Blog, 0, len(ids))
	if len(ids) == 0 {
		return blogs, nil
	}
	err := s.preload(s.db.WithContext(ctx)).Where("id IN ?", ids).Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

// ListBlogs 按创建时间倒序分页
func (s *blogRepoImpl) ListBlogs(ctx context.Context, filter *BlogFilter, offset, limit int) ([]*model.Blog, error) {
	blogs := make([]*model.Blog, 0)
	err := s.preload(s.db.WithContext(ctx)).
		Scopes(BlogFilterScope(filter)).
		Order("blogs.created_at DESC").
		Order("blogs.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

// ListMostWatched 按累计阅读量倒序
func (s *blogRepoImpl) ListMostWatched(ctx context.Context, filter *BlogFilter, limit int) ([]*model.Blog, error) {
	blogs := make([]*model.Blog, 0)
	err := s.preload(s.db.WithContext(ctx)).
		Scopes(BlogFilterScope(filter)).
		Where("blogs.total_views > 0").
		Order("blogs.total_views DESC").
		Order("blogs.id ASC").
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (s *blogRepoImpl) GetBlogIDsByAuthor(ctx context.Context, authorID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Blog{}).
		Where("author_id = ?", authorID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *blogRepoImpl) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("SubCategory").Preload("Tags")
}

// BlogFilterScope 将 BlogFilter 转为 where 条件，查询主表需为 blogs
func BlogFilterScope(f *BlogFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f == nil {
			return db
		}
		if f.Status != "" {
			db = db.Where("blogs.status = ?", f.Status)
		}
		if f.AuthorID != nil {
			db = db.Where("blogs.author_id = ?", *f.AuthorID)
		}
		if f.Author != "" {
			db = db.Where("CAST(blogs.author_id AS CHAR) LIKE ? ESCAPE '!'", "%"+escapeLike(f.Author)+"%")
		}
		if f.CategoryID != nil {
			db = db.Where("blogs.category_id = ?", *f.CategoryID)
		}
		if f.SubCategoryID != nil {
			db = db.Where("blogs.subcategory_id = ?", *f.SubCategoryID)
		}
		if len(f.TagIDs) > 0 {
			db = db.Where("EXISTS (SELECT 1 FROM blog_tags WHERE blog_tags.blog_id = blogs.id AND blog_tags.tag_id IN ?)", f.TagIDs)
		}
		if f.TagName != "" {
			db = db.Where("EXISTS (SELECT 1 FROM blog_tags JOIN tags ON tags.id = blog_tags.tag_id WHERE blog_tags.blog_id = blogs.id AND tags.name = ?)", f.TagName)
		}
		if f.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
			db = db.Where("(LOWER(blogs.title) LIKE ? ESCAPE '!' OR LOWER(blogs.content) LIKE ? ESCAPE '!')", pattern, pattern)
		}
		if f.CreatedFrom != nil {
			db = db.Where("blogs.created_at >= ?", *f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			db = db.Where("blogs.created_at <= ?", *f.CreatedTo)
		}
		if f.MinViews != nil {
			db = db.Where("blogs.total_views >= ?", *f.MinViews)
		}
		return db
	}
}

// escapeLike 以 ! 作为 LIKE 转义符
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func resolveRelations(tx *gorm.DB, blog *model.Blog, rel *BlogRelations) ([]uint64, error) {
	if rel == nil {
		return nil, nil
	}
	if rel.NewCategory != "" {
		category, err := getOrCreateCategory(tx, rel.NewCategory)
		if err != nil {
			return nil, err
		}
		blog.CategoryID = category.ID
	}
	if rel.NewSubCategory != "" {
		sub, err := getOrCreateSubCategory(tx, rel.NewSubCategory, blog.CategoryID)
		if err != nil {
			return nil, err
		}
		blog.SubCategoryID = &sub.ID
	}

	tags, err := getOrCreateTags(tx, rel.TagNames)
	if err != nil {
		return nil, err
	}
	tagIDs := make([]uint64, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
	}
	return tagIDs, nil
}

func linkTags(tx *gorm.DB, blogID uint64, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]*model.BlogTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, &model.BlogTag{BlogID: blogID, TagID: id})
	}
	return tx.Create(&links).Error
}
