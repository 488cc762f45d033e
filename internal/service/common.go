package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/model"
	"Booklet/internal/pkg/util"
	"Booklet/internal/repository"
	"time"

	"github.com/jinzhu/copier"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// timeNow 统一的时间来源 (UTC)
var timeNow = func() time.Time {
	return time.Now().UTC()
}

// normalizeLimit 限制分页大小
func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func pageToOffset(page, pageSize int) (int, int) {
	pageSize = normalizeLimit(pageSize, DefaultPageSize)
	if page <= 0 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}

func toBlogDTO(blog *model.Blog) *dto.BlogDTO {
	res := &dto.BlogDTO{}
	_ = copier.Copy(res, blog)

	res.CategoryName = blog.Category.Name
	if blog.SubCategory != nil {
		res.SubCategoryName = blog.SubCategory.Name
	}
	res.TagList = make([]string, 0, len(blog.Tags))
	for _, t := range blog.Tags {
		res.TagList = append(res.TagList, t.Name)
	}
	return res
}

func toBlogDTOs(blogs []*model.Blog) []*dto.BlogDTO {
	res := make([]*dto.BlogDTO, 0, len(blogs))
	for _, b := range blogs {
		res = append(res, toBlogDTO(b))
	}
	return res
}

// toBlogFilter 解析查询参数中的筛选条件
func toBlogFilter(f *dto.BlogFilterDTO) (*repository.BlogFilter, error) {
	filter := &repository.BlogFilter{}
	if f == nil {
		return filter, nil
	}
	tagIDs, err := util.ParseUint64List(f.TagIDs)
	if err != nil {
		return nil, ErrParamInvalid
	}
	filter.CategoryID = f.CategoryID
	filter.SubCategoryID = f.SubCategoryID
	filter.Author = f.Author
	filter.TagIDs = tagIDs
	filter.Search = f.Search
	return filter, nil
}
