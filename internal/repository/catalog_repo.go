package repository

import (
	"Booklet/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepo interface {
	GetCategory(ctx context.Context, id uint64) (*model.Category, error)
	GetSubCategory(ctx context.Context, id uint64) (*model.SubCategory, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListTags(ctx context.Context) ([]*model.Tag, error)
	GetTagsByNames(ctx context.Context, names []string) ([]*model.Tag, error)
	GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepo {
	return &catalogRepoImpl{
		db: db,
	}
}

func (s *catalogRepoImpl) GetCategory(ctx context.Context, id uint64) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *catalogRepoImpl) GetSubCategory(ctx context.Context, id uint64) (*model.SubCategory, error) {
	var sub model.SubCategory
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ListCategories 分类及其子分类
func (s *catalogRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	err := s.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *catalogRepoImpl) ListTags(ctx context.Context) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0)
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *catalogRepoImpl) GetTagsByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0)
	if len(names) == 0 {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *catalogRepoImpl) GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error) {
	return getOrCreateTags(s.db.WithContext(ctx), tagNames)
}

// getOrCreateTags 创建所有标签，使用 OnConflict DoNothing 避免重复创建，可在事务内调用
func getOrCreateTags(db *gorm.DB, tagNames []string) ([]*model.Tag, error) {
	tags := make([]*model.Tag, 0, len(tagNames))
	if len(tagNames) == 0 {
		return tags, nil
	}

	for _, tagName := range tagNames {
		tag := model.Tag{
			Name:      tagName,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// getOrCreateCategory 按名称获取分类，不存在则创建
func getOrCreateCategory(db *gorm.DB, name string) (*model.Category, error) {
	category := model.Category{Name: name, CreatedAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
		return nil, err
	}

	var existing model.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// getOrCreateSubCategory 子分类名称在所属分类下唯一
func getOrCreateSubCategory(db *gorm.DB, name string, categoryID uint64) (*model.SubCategory, error) {
	sub := model.SubCategory{Name: name, CategoryID: categoryID, CreatedAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error; err != nil {
		return nil, err
	}

	var existing model.SubCategory
	if err := db.Where("name = ? AND category_id = ?", name, categoryID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
