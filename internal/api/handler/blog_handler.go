package handler

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/pkg/response"
	"Booklet/internal/service"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	blogSvc service.BlogService
}

func NewBlogHandler(blogSvc service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogSvc: blogSvc,
	}
}

func (s *BlogHandler) CreateBlog(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.BlogBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	blog, err := s.blogSvc.CreateBlog(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blog)
}

func (s *BlogHandler) UpdateBlog(c *gin.Context) {
	userID := c.GetUint64("user_id")
	blogID, err := parseUintParam(c, "blog_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.BlogBaseDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	blog, err := s.blogSvc.UpdateBlog(c.Request.Context(), userID, blogID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blog)
}

func (s *BlogHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetUint64("user_id")
	blogID, err := parseUintParam(c, "blog_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.BlogStatusDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err = s.blogSvc.UpdateStatus(c.Request.Context(), userID, blogID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *BlogHandler) DeleteBlog(c *gin.Context) {
	userID := c.GetUint64("user_id")
	blogID, err := parseUintParam(c, "blog_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.blogSvc.DeleteBlog(c.Request.Context(), userID, blogID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *BlogHandler) GetBlog(c *gin.Context) {
	userID := c.GetUint64("user_id")
	blogID, err := parseUintParam(c, "blog_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	blog, err := s.blogSvc.GetBlog(c.Request.Context(), userID, blogID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blog)
}

func (s *BlogHandler) ListPublished(c *gin.Context) {
	page, pageSize := getPagination(c)
	blogs, err := s.blogSvc.ListPublished(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

// ListLatest 最新博客，支持筛选
func (s *BlogHandler) ListLatest(c *gin.Context) {
	var query dto.BlogListDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}

	blogs, err := s.blogSvc.ListLatest(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

func (s *BlogHandler) ListByAuthor(c *gin.Context) {
	userID := c.GetUint64("user_id")
	authorID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, pageSize := getPagination(c)

	blogs, err := s.blogSvc.ListByAuthor(c.Request.Context(), userID, authorID, c.Query("status"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

// ListMine 当前用户的全部博客，含草稿
func (s *BlogHandler) ListMine(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := getPagination(c)

	blogs, err := s.blogSvc.ListByAuthor(c.Request.Context(), userID, userID, c.Query("status"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

func (s *BlogHandler) ListByCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "category_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, pageSize := getPagination(c)

	blogs, err := s.blogSvc.ListByCategory(c.Request.Context(), categoryID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

func (s *BlogHandler) ListBySubCategory(c *gin.Context) {
	subCategoryID, err := parseUintParam(c, "subcategory_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, pageSize := getPagination(c)

	blogs, err := s.blogSvc.ListBySubCategory(c.Request.Context(), subCategoryID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}

func (s *BlogHandler) ListByTag(c *gin.Context) {
	page, pageSize := getPagination(c)

	blogs, err := s.blogSvc.ListByTag(c.Request.Context(), c.Param("tag"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, blogs)
}
