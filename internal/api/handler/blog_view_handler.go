package handler

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/pkg/response"
	"Booklet/internal/pkg/util"
	"Booklet/internal/service"

	"github.com/gin-gonic/gin"
)

type BlogViewHandler struct {
	blogViewSvc service.BlogViewService
}

func NewBlogViewHandler(blogViewSvc service.BlogViewService) *BlogViewHandler {
	return &BlogViewHandler{
		blogViewSvc: blogViewSvc,
	}
}

// RecordView 记录一次阅读
func (h *BlogViewHandler) RecordView(c *gin.Context) {
	blogID, err := parseUintParam(c, "blog_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.blogViewSvc.RecordView(c.Request.Context(), blogID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetTrending 最近 N 天热门
func (h *BlogViewHandler) GetTrending(c *gin.Context) {
	var query dto.TrendingQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}

	res, err := h.blogViewSvc.GetTrending(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMostWatched 累计阅读最多
func (h *BlogViewHandler) GetMostWatched(c *gin.Context) {
	var query dto.MostWatchedQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}

	res, err := h.blogViewSvc.GetMostWatched(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetGroupedViews 指定博客的阅读量分组统计
func (h *BlogViewHandler) GetGroupedViews(c *gin.Context) {
	var query dto.GroupedViewsQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}
	ids, err := util.ParseUint64List(query.BlogIDs)
	if err != nil || len(ids) == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := h.blogViewSvc.GetGroupedViews(c.Request.Context(), ids, query.GroupBy, query.Period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetUserGroupedViews 某作者全部博客的阅读量分组统计
func (h *BlogViewHandler) GetUserGroupedViews(c *gin.Context) {
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.GroupedViewsQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}

	res, err := h.blogViewSvc.GetUserGroupedViews(c.Request.Context(), userID, query.GroupBy, query.Period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
