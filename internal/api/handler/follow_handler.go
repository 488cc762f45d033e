package handler

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/pkg/response"
	"Booklet/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followSvc service.FollowService
}

func NewFollowHandler(followSvc service.FollowService) *FollowHandler {
	return &FollowHandler{followSvc: followSvc}
}

// Toggle 关注或取消关注
func (s *FollowHandler) Toggle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingID, err := strconv.ParseUint(c.Param("following_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := s.followSvc.ToggleFollow(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

func (s *FollowHandler) GetStats(c *gin.Context) {
	userID := c.GetUint64("user_id")
	period := c.DefaultQuery("period", "7d")

	stats, err := s.followSvc.GetStats(c.Request.Context(), userID, period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *FollowHandler) GetFollowers(c *gin.Context) {
	s.getPage(c, s.followSvc.GetFollowers)
}

func (s *FollowHandler) GetFollowings(c *gin.Context) {
	s.getPage(c, s.followSvc.GetFollowing)
}

func (s *FollowHandler) GetFollowersCount(c *gin.Context) {
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := s.followSvc.GetFollowerCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *FollowHandler) GetFollowingsCount(c *gin.Context) {
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	count, err := s.followSvc.GetFollowingCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *FollowHandler) IsFollowing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingID, err := parseUintParam(c, "following_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	following, err := s.followSvc.IsFollowing(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, following)
}

func (s *FollowHandler) GetSuggestions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultSuggestions)))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ids, err := s.followSvc.GetSuggestions(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ids)
}

type pageFunc func(ctx context.Context, userID, viewerID uint64, query *dto.FollowPageQueryDTO) (*dto.FollowPageDTO, error)

func (s *FollowHandler) getPage(c *gin.Context, fetch pageFunc) {
	viewerID := c.GetUint64("user_id")
	userID, err := parseUintParam(c, "user_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.FollowPageQueryDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err))
		return
	}

	page, err := fetch(c.Request.Context(), userID, viewerID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
