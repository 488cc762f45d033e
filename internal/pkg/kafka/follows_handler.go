package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type FollowCountInvalidator interface {
	InvalidateCounts(ctx context.Context, followerID, followingID uint64) error
}

// FollowsHandler 关注关系变更后清除双方的计数缓存
type FollowsHandler struct {
	invalidator FollowCountInvalidator
}

func NewFollowsHandler(invalidator FollowCountInvalidator) *FollowsHandler {
	return &FollowsHandler{invalidator: invalidator}
}

func (s *FollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("follows consumer setup")
	return nil
}

func (s *FollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("follows consumer cleanup")
	return nil
}

func (s *FollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-follows consume claim end")
	return nil
}

func (s *FollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "follows")
	if err != nil || canalMsg == nil {
		return nil
	}

	for _, row := range canalMsg.Data {
		followerID := StrToUint64(row["follower_id"])
		followingID := StrToUint64(row["following_id"])
		if followerID == 0 || followingID == 0 {
			continue
		}
		if err = s.invalidator.InvalidateCounts(ctx, followerID, followingID); err != nil {
			return errors.Wrapf(err, "evict follow counts %d -> %d", followerID, followingID)
		}
	}
	return nil
}
