package repository

import (
	"Booklet/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrStaleFollow 关注状态在读写之间被并发修改
var ErrStaleFollow = errors.New("follow state changed concurrently")

type FollowRepo interface {
	Toggle(ctx context.Context, followerID, followingID uint64, now time.Time) (*model.Follow, error)
	GetFollow(ctx context.Context, followerID, followingID uint64) (*model.Follow, error)
	GetFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Follow, error)
	GetFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Follow, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	FilterFollowing(ctx context.Context, followerID uint64, candidateIDs []uint64) (map[uint64]struct{}, error)
	GetGainedTimes(ctx context.Context, userID uint64, start, end time.Time) ([]time.Time, error)
	GetLostTimes(ctx context.Context, userID uint64, start, end time.Time) ([]time.Time, error)
	GetSuggestions(ctx context.Context, userID uint64, limit int) ([]uint64, error)
}

type followRepoImpl struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepo {
	return &followRepoImpl{db: db}
}

// Toggle 在同一事务内读取并翻转关注状态
// 无记录则新建；有效则置为失效并记录失效时间；失效则重新激活并刷新 created_at
func (s *followRepoImpl) Toggle(ctx context.Context, followerID, followingID uint64, now time.Time) (*model.Follow, error) {
	var follow model.Follow

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&follow).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			follow = model.Follow{
				FollowerID:  followerID,
				FollowingID: followingID,
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			return tx.Create(&follow).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": now}
		if follow.IsActive {
			updates["is_active"] = false
			updates["deactivated_at"] = now
		} else {
			updates["is_active"] = true
			updates["created_at"] = now
			updates["deactivated_at"] = nil
		}

		result := tx.Model(&model.Follow{}).
			Where("id = ? AND is_active = ?", follow.ID, follow.IsActive).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleFollow
		}

		follow.UpdatedAt = now
		if follow.IsActive {
			follow.IsActive = false
			follow.DeactivatedAt = &now
		} else {
			follow.IsActive = true
			follow.CreatedAt = now
			follow.DeactivatedAt = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

// GetFollow 获取关注关系，不存在时返回 nil, nil
func (s *followRepoImpl) GetFollow(ctx context.Context, followerID, followingID uint64) (*model.Follow, error) {
	var follow model.Follow
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &follow, nil
}

// GetFollowers 有效粉丝，按 follower_id 升序，从 cursor 之后开始
func (s *followRepoImpl) GetFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Follow, error) {
	follows := make([]*model.Follow, 0, limit)
	result := s.db.WithContext(ctx).
		Where("following_id = ? AND is_active = ?", userID, true).
		Where("follower_id > ?", cursor).
		Order("follower_id ASC").
		Limit(limit).
		Find(&follows)
	if result.Error != nil {
		return nil, result.Error
	}
	return follows, nil
}

// GetFollowing 有效关注，按 following_id 升序，从 cursor 之后开始
func (s *followRepoImpl) GetFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]*model.Follow, error) {
	follows := make([]*model.Follow, 0, limit)
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND is_active = ?", userID, true).
		Where("following_id > ?", cursor).
		Order("following_id ASC").
		Limit(limit).
		Find(&follows)
	if result.Error != nil {
		return nil, result.Error
	}
	return follows, nil
}

func (s *followRepoImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ? AND is_active = ?", userID, true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (s *followRepoImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND is_active = ?", userID, true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// FilterFollowing 返回 candidateIDs 中 followerID 正在关注的用户
func (s *followRepoImpl) FilterFollowing(ctx context.Context, followerID uint64, candidateIDs []uint64) (map[uint64]struct{}, error) {
	set := make(map[uint64]struct{})
	if followerID == 0 || len(candidateIDs) == 0 {
		return set, nil
	}
	ids := make([]uint64, 0, len(candidateIDs))
	err := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND is_active = ?", followerID, true).
		Where("following_id IN ?", candidateIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// GetGainedTimes 当前有效且 created_at 落在 [start, end) 的关注时间
func (s *followRepoImpl) GetGainedTimes(ctx context.Context, userID uint64, start, end time.Time) ([]time.Time, error) {
	times := make([]time.Time, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ? AND is_active = ?", userID, true).
		Where("created_at >= ? AND created_at < ?", start, end).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// GetLostTimes 当前失效且 deactivated_at 落在 [start, end) 的取关时间
func (s *followRepoImpl) GetLostTimes(ctx context.Context, userID uint64, start, end time.Time) ([]time.Time, error) {
	times := make([]time.Time, 0)
	err := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("following_id = ? AND is_active = ?", userID, false).
		Where("deactivated_at >= ? AND deactivated_at < ?", start, end).
		Pluck("deactivated_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// GetSuggestions 二度关注：关注的人所关注的人，排除自己与已关注的人
func (s *followRepoImpl) GetSuggestions(ctx context.Context, userID uint64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0, limit)
	following := s.db.Model(&model.Follow{}).
		Select("following_id").
		Where("follower_id = ? AND is_active = ?", userID, true)

	err := s.db.WithContext(ctx).
		Table("follows AS f1").
		Distinct("f2.following_id").
		Joins("JOIN follows AS f2 ON f2.follower_id = f1.following_id").
		Where("f1.follower_id = ? AND f1.is_active = ?", userID, true).
		Where("f2.is_active = ?", true).
		Where("f2.following_id <> ?", userID).
		Where("f2.following_id NOT IN (?)", following).
		Order("f2.following_id ASC").
		Limit(limit).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
