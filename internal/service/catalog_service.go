package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/repository"
	"context"
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	ListTags(ctx context.Context) ([]*dto.TagDTO, error)
}

type catalogServiceImpl struct {
	catalogRepo repository.CatalogRepo
}

func NewCatalogService(catalogRepo repository.CatalogRepo) CatalogService {
	return &catalogServiceImpl{catalogRepo: catalogRepo}
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		item := &dto.CategoryDTO{
			ID:            c.ID,
			Name:          c.Name,
			SubCategories: make([]*dto.SubCategoryDTO, 0, len(c.SubCategories)),
		}
		for _, sub := range c.SubCategories {
			item.SubCategories = append(item.SubCategories, &dto.SubCategoryDTO{ID: sub.ID, Name: sub.Name})
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *catalogServiceImpl) ListTags(ctx context.Context) ([]*dto.TagDTO, error) {
	tags, err := s.catalogRepo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.TagDTO, 0, len(tags))
	for _, t := range tags {
		res = append(res, &dto.TagDTO{ID: t.ID, Name: t.Name})
	}
	return res, nil
}
