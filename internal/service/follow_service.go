package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/database"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/pkg/util"
	"Booklet/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"
)

const (
	DefaultFollowPageSize = 20
	DefaultSuggestions    = 10
	followCountTTL        = time.Hour
)

const (
	hourBucketLayout = "2006-01-02 15:00"
	dayBucketLayout  = time.DateOnly
)

// PeriodMax 统计全部历史，没有上一周期
const PeriodMax = "max"

var statsPeriods = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"15d": 15 * 24 * time.Hour,
	"1m":  30 * 24 * time.Hour,
	"6m":  180 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"5y":  1825 * 24 * time.Hour,
}

type FollowService interface {
	// ToggleFollow 关注/取关切换，返回切换后的状态
	ToggleFollow(ctx context.Context, followerID, followingID uint64) (*dto.FollowStateDTO, error)
	// GetStats 粉丝增减统计
	GetStats(ctx context.Context, userID uint64, period string) (*dto.FollowerStatsDTO, error)
	// GetFollowers 粉丝分页，mutual 表示 viewer 是否也关注了该用户
	GetFollowers(ctx context.Context, userID, viewerID uint64, query *dto.FollowPageQueryDTO) (*dto.FollowPageDTO, error)
	GetFollowing(ctx context.Context, userID, viewerID uint64, query *dto.FollowPageQueryDTO) (*dto.FollowPageDTO, error)
	GetSuggestions(ctx context.Context, userID uint64, limit int) ([]uint64, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error)
	// InvalidateCounts 清除双方的计数缓存
	InvalidateCounts(ctx context.Context, followerID, followingID uint64) error
}

type followServiceImpl struct {
	followRepo repository.FollowRepo
}

func NewFollowService(followRepo repository.FollowRepo) FollowService {
	return &followServiceImpl{followRepo: followRepo}
}

type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)
type fetchPageFunc func(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Follow, error)

func (s *followServiceImpl) ToggleFollow(ctx context.Context, followerID, followingID uint64) (*dto.FollowStateDTO, error) {
	if followerID == 0 || followingID == 0 {
		return nil, ErrParamInvalid
	}
	if followerID == followingID {
		return nil, ErrUserFollowSelf
	}

	now := timeNow()
	follow, err := s.followRepo.Toggle(ctx, followerID, followingID, now)
	if err != nil {
		if errors.Is(err, repository.ErrStaleFollow) || database.IsDuplicateError(err) {
			return nil, ErrActionDuplicate
		}
		return nil, err
	}

	if err = s.InvalidateCounts(ctx, followerID, followingID); err != nil {
		log.WarnContext(ctx, "evict follow count cache failed", "follower_id", followerID, "following_id", followingID, "err", err)
	}

	return &dto.FollowStateDTO{
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
		Following:   follow.IsActive,
		ChangedAt:   now,
	}, nil
}

func (s *followServiceImpl) GetStats(ctx context.Context, userID uint64, period string) (*dto.FollowerStatsDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}

	now := timeNow()
	// 仓储层窗口为左闭右开，当前窗口需包含 now
	end := now.Add(time.Nanosecond)

	res := &dto.FollowerStatsDTO{
		Period:          period,
		EndDate:         now,
		BucketFormat:    dayBucketLayout,
		FollowersGained: make(map[string]int64),
		FollowersLost:   make(map[string]int64),
	}

	var start, prevStart time.Time
	hasPrevious := true
	if period == PeriodMax {
		start = time.Unix(0, 0).UTC()
		hasPrevious = false
	} else {
		d, ok := statsPeriods[period]
		if !ok {
			return nil, ErrInvalidPeriod
		}
		start = now.Add(-d)
		prevStart = start.Add(-d)
		res.StartDate = &start
		if period == "24h" {
			res.BucketFormat = hourBucketLayout
		}
	}

	gained, err := s.followRepo.GetGainedTimes(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	lost, err := s.followRepo.GetLostTimes(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	for _, t := range gained {
		res.FollowersGained[t.UTC().Format(res.BucketFormat)]++
	}
	for _, t := range lost {
		res.FollowersLost[t.UTC().Format(res.BucketFormat)]++
	}
	res.TotalGained = int64(len(gained))
	res.TotalLost = int64(len(lost))
	res.NetChange = res.TotalGained - res.TotalLost

	if hasPrevious {
		prevGained, err := s.followRepo.GetGainedTimes(ctx, userID, prevStart, start)
		if err != nil {
			return nil, err
		}
		prevLost, err := s.followRepo.GetLostTimes(ctx, userID, prevStart, start)
		if err != nil {
			return nil, err
		}
		res.PreviousNetChange = int64(len(prevGained)) - int64(len(prevLost))
	}
	res.PercentageChange = util.PercentageChange(res.NetChange, res.PreviousNetChange)

	res.TotalFollowers, err = s.followRepo.GetFollowerCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *followServiceImpl) GetFollowers(ctx context.Context, userID, viewerID uint64, query *dto.FollowPageQueryDTO) (*dto.FollowPageDTO, error) {
	return s.getPageCommon(ctx, userID, viewerID, query, true, s.followRepo.GetFollowers)
}

func (s *followServiceImpl) GetFollowing(ctx context.Context, userID, viewerID uint64, query *dto.FollowPageQueryDTO) (*dto.FollowPageDTO, error) {
	return s.getPageCommon(ctx, userID, viewerID, query, false, s.followRepo.GetFollowing)
}

func (s *followServiceImpl) GetSuggestions(ctx context.Context, userID uint64, limit int) ([]uint64, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	return s.followRepo.GetSuggestions(ctx, userID, normalizeLimit(limit, DefaultSuggestions))
}

func (s *followServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.followRepo.GetFollowerCount)
}

func (s *followServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.followRepo.GetFollowingCount)
}

func (s *followServiceImpl) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	follow, err := s.followRepo.GetFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil && follow.IsActive, nil
}

func (s *followServiceImpl) InvalidateCounts(ctx context.Context, followerID, followingID uint64) error {
	return redis.DeleteKey(ctx,
		consts.UserFollowingCountKey+strconv.FormatUint(followerID, 10),
		consts.UserFollowerCountKey+strconv.FormatUint(followingID, 10),
	)
}

func (s *followServiceImpl) getPageCommon(
	ctx context.Context,
	userID, viewerID uint64,
	query *dto.FollowPageQueryDTO,
	isFollowerList bool,
	fetchDB fetchPageFunc,
) (*dto.FollowPageDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	limit := normalizeLimit(query.Limit, DefaultFollowPageSize)

	follows, err := fetchDB(ctx, userID, query.Cursor, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		if isFollowerList {
			ids = append(ids, f.FollowerID)
		} else {
			ids = append(ids, f.FollowingID)
		}
	}

	mutual, err := s.followRepo.FilterFollowing(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	res := &dto.FollowPageDTO{Items: make([]*dto.FollowUserDTO, 0, len(follows))}
	for i, f := range follows {
		_, ok := mutual[ids[i]]
		res.Items = append(res.Items, &dto.FollowUserDTO{
			UserID:     ids[i],
			Mutual:     ok,
			FollowedAt: f.CreatedAt,
		})
	}
	if len(ids) == limit {
		next := ids[len(ids)-1]
		res.NextCursor = &next
	}
	return res, nil
}

func (s *followServiceImpl) getCountCommon(
	ctx context.Context,
	userID uint64,
	keyPrefix string,
	fetchDB fetchCountFunc,
) (int64, error) {
	if userID == 0 {
		return 0, ErrParamInvalid
	}
	key := keyPrefix + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, followCountTTL)
	return count, nil
}
