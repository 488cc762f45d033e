package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/util"
	"Booklet/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"slices"
	"strings"
	"time"
)

type BlogService interface {
	CreateBlog(ctx context.Context, userID uint64, blogDTO *dto.BlogBaseDTO) (*dto.BlogDTO, error)
	UpdateBlog(ctx context.Context, userID, blogID uint64, blogDTO *dto.BlogBaseDTO) (*dto.BlogDTO, error)
	UpdateStatus(ctx context.Context, userID, blogID uint64, status string) error
	DeleteBlog(ctx context.Context, userID, blogID uint64) error
	// GetBlog 未发布的博客仅作者本人可见
	GetBlog(ctx context.Context, viewerID, blogID uint64) (*dto.BlogDTO, error)
	ListPublished(ctx context.Context, page, pageSize int) ([]*dto.BlogDTO, error)
	// ListLatest 最新发布，支持分类、作者、日期、阅读量、标签筛选
	ListLatest(ctx context.Context, query *dto.BlogListDTO) ([]*dto.BlogDTO, error)
	// ListByAuthor 作者本人可按状态查看，其他人只能看到已发布
	ListByAuthor(ctx context.Context, viewerID, authorID uint64, status string, page, pageSize int) ([]*dto.BlogDTO, error)
	ListByCategory(ctx context.Context, categoryID uint64, page, pageSize int) ([]*dto.BlogDTO, error)
	ListBySubCategory(ctx context.Context, subCategoryID uint64, page, pageSize int) ([]*dto.BlogDTO, error)
	ListByTag(ctx context.Context, tag string, page, pageSize int) ([]*dto.BlogDTO, error)
}

type blogServiceImpl struct {
	blogRepo    repository.BlogRepo
	catalogRepo repository.CatalogRepo
	viewService BlogViewService
}

func NewBlogService(blogRepo repository.BlogRepo, catalogRepo repository.CatalogRepo, viewService BlogViewService) BlogService {
	return &blogServiceImpl{
		blogRepo:    blogRepo,
		catalogRepo: catalogRepo,
		viewService: viewService,
	}
}

func (s *blogServiceImpl) CreateBlog(ctx context.Context, userID uint64, blogDTO *dto.BlogBaseDTO) (*dto.BlogDTO, error) {
	if userID == 0 {
		return nil, UnauthorizedError
	}
	if err := util.ValidateDTO(blogDTO); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}

	blog := &model.Blog{
		Title:    strings.TrimSpace(blogDTO.Title),
		Content:  blogDTO.Content,
		Status:   blogDTO.Status,
		AuthorID: userID,
	}
	if blog.Status == "" {
		blog.Status = consts.BlogStatusDraft
	}

	rel, err := s.resolveCatalog(ctx, blog, blogDTO)
	if err != nil {
		return nil, err
	}

	if err = s.blogRepo.CreateBlog(ctx, blog, rel); err != nil {
		return nil, err
	}
	s.afterPublishChange(ctx, blog.Status)

	return s.reload(ctx, blog.ID)
}

func (s *blogServiceImpl) UpdateBlog(ctx context.Context, userID, blogID uint64, blogDTO *dto.BlogBaseDTO) (*dto.BlogDTO, error) {
	if err := util.ValidateDTO(blogDTO); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParamInvalid, err.Error())
	}
	blog, err := s.getOwnedBlog(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}

	prevStatus := blog.Status
	blog.Title = strings.TrimSpace(blogDTO.Title)
	blog.Content = blogDTO.Content
	if blogDTO.Status != "" {
		blog.Status = blogDTO.Status
	}
	blog.SubCategoryID = nil

	rel, err := s.resolveCatalog(ctx, blog, blogDTO)
	if err != nil {
		return nil, err
	}
	if err = s.blogRepo.UpdateBlog(ctx, blog, rel); err != nil {
		return nil, err
	}
	s.afterPublishChange(ctx, prevStatus, blog.Status)

	return s.reload(ctx, blog.ID)
}

func (s *blogServiceImpl) UpdateStatus(ctx context.Context, userID, blogID uint64, status string) error {
	if status != consts.BlogStatusDraft && status != consts.BlogStatusPublished {
		return ErrInvalidBlogStatus
	}
	blog, err := s.getOwnedBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}
	if blog.Status == status {
		return nil
	}
	if err = s.blogRepo.UpdateStatus(ctx, blogID, status); err != nil {
		return err
	}
	s.afterPublishChange(ctx, blog.Status, status)
	return nil
}

func (s *blogServiceImpl) DeleteBlog(ctx context.Context, userID, blogID uint64) error {
	blog, err := s.getOwnedBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}
	if err = s.blogRepo.DeleteBlog(ctx, blogID); err != nil {
		return err
	}
	s.afterPublishChange(ctx, blog.Status)
	return nil
}

func (s *blogServiceImpl) GetBlog(ctx context.Context, viewerID, blogID uint64) (*dto.BlogDTO, error) {
	blog, err := s.blogRepo.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	if blog.Status != consts.BlogStatusPublished && blog.AuthorID != viewerID {
		return nil, ErrBlogNotFound
	}
	return toBlogDTO(blog), nil
}

func (s *blogServiceImpl) ListPublished(ctx context.Context, page, pageSize int) ([]*dto.BlogDTO, error) {
	return s.list(ctx, &repository.BlogFilter{Status: consts.BlogStatusPublished}, page, pageSize)
}

func (s *blogServiceImpl) ListLatest(ctx context.Context, query *dto.BlogListDTO) ([]*dto.BlogDTO, error) {
	filter, err := toBlogFilter(&query.BlogFilterDTO)
	if err != nil {
		return nil, err
	}
	filter.Status = consts.BlogStatusPublished
	filter.MinViews = query.MinViews

	if query.StartDate != "" {
		start, err := time.ParseInLocation(time.DateOnly, query.StartDate, time.UTC)
		if err != nil {
			return nil, ErrParamInvalid
		}
		filter.CreatedFrom = &start
	}
	if query.EndDate != "" {
		end, err := time.ParseInLocation(time.DateOnly, query.EndDate, time.UTC)
		if err != nil {
			return nil, ErrParamInvalid
		}
		// 结束日期当天全部包含
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.CreatedTo = &end
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
		return nil, ErrParamInvalid
	}

	return s.list(ctx, filter, query.Page, query.PageSize)
}

func (s *blogServiceImpl) ListByAuthor(ctx context.Context, viewerID, authorID uint64, status string, page, pageSize int) ([]*dto.BlogDTO, error) {
	if authorID == 0 {
		return nil, ErrParamInvalid
	}
	filter := &repository.BlogFilter{AuthorID: &authorID, Status: consts.BlogStatusPublished}
	if viewerID == authorID {
		switch status {
		case "":
			filter.Status = ""
		case consts.BlogStatusDraft, consts.BlogStatusPublished:
			filter.Status = status
		default:
			return nil, ErrInvalidBlogStatus
		}
	}
	return s.list(ctx, filter, page, pageSize)
}

func (s *blogServiceImpl) ListByCategory(ctx context.Context, categoryID uint64, page, pageSize int) ([]*dto.BlogDTO, error) {
	category, err := s.catalogRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return s.list(ctx, &repository.BlogFilter{Status: consts.BlogStatusPublished, CategoryID: &categoryID}, page, pageSize)
}

func (s *blogServiceImpl) ListBySubCategory(ctx context.Context, subCategoryID uint64, page, pageSize int) ([]*dto.BlogDTO, error) {
	sub, err := s.catalogRepo.GetSubCategory(ctx, subCategoryID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubCategoryNotFound
	}
	return s.list(ctx, &repository.BlogFilter{Status: consts.BlogStatusPublished, SubCategoryID: &subCategoryID}, page, pageSize)
}

func (s *blogServiceImpl) ListByTag(ctx context.Context, tag string, page, pageSize int) ([]*dto.BlogDTO, error) {
	names := util.NormalizeTags(tag)
	if len(names) != 1 {
		return nil, ErrParamInvalid
	}
	return s.list(ctx, &repository.BlogFilter{Status: consts.BlogStatusPublished, TagName: names[0]}, page, pageSize)
}

func (s *blogServiceImpl) list(ctx context.Context, filter *repository.BlogFilter, page, pageSize int) ([]*dto.BlogDTO, error) {
	offset, limit := pageToOffset(page, pageSize)
	blogs, err := s.blogRepo.ListBlogs(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	return toBlogDTOs(blogs), nil
}

func (s *blogServiceImpl) getOwnedBlog(ctx context.Context, userID, blogID uint64) (*model.Blog, error) {
	blog, err := s.blogRepo.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	if blog.AuthorID != userID {
		return nil, ErrNotBlogOwner
	}
	return blog, nil
}

// resolveCatalog 校验已有分类与子分类的归属，新名称交给仓储在事务内创建
func (s *blogServiceImpl) resolveCatalog(ctx context.Context, blog *model.Blog, blogDTO *dto.BlogBaseDTO) (*repository.BlogRelations, error) {
	rel := &repository.BlogRelations{
		NewCategory:    strings.TrimSpace(blogDTO.NewCategory),
		NewSubCategory: strings.TrimSpace(blogDTO.NewSubCategory),
		TagNames:       util.NormalizeTags(blogDTO.Tags),
	}

	switch {
	case rel.NewCategory != "":
		if blogDTO.SubCategoryID != nil {
			// 新建分类下不可能存在已有子分类
			return nil, ErrSubCategoryNotFound
		}
	case blogDTO.CategoryID != nil:
		category, err := s.catalogRepo.GetCategory(ctx, *blogDTO.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		blog.CategoryID = category.ID
	default:
		return nil, fmt.Errorf("%w: category_id or new_category required", ErrParamInvalid)
	}

	if rel.NewSubCategory == "" && blogDTO.SubCategoryID != nil {
		sub, err := s.catalogRepo.GetSubCategory(ctx, *blogDTO.SubCategoryID)
		if err != nil {
			return nil, err
		}
		if sub == nil || sub.CategoryID != blog.CategoryID {
			return nil, ErrSubCategoryNotFound
		}
		blog.SubCategoryID = &sub.ID
	}
	return rel, nil
}

func (s *blogServiceImpl) reload(ctx context.Context, blogID uint64) (*dto.BlogDTO, error) {
	blog, err := s.blogRepo.GetBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return toBlogDTO(blog), nil
}

// afterPublishChange 变更前后任一状态为已发布时使热门排行缓存失效
func (s *blogServiceImpl) afterPublishChange(ctx context.Context, statuses ...string) {
	if s.viewService == nil || !slices.Contains(statuses, consts.BlogStatusPublished) {
		return
	}
	if err := s.viewService.InvalidateTrending(ctx); err != nil {
		log.WarnContext(ctx, "invalidate trending cache failed", "err", err)
	}
}
