package kafka

import (
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

type TrendingInvalidator interface {
	InvalidateTrending(ctx context.Context) error
}

// BlogViewsHandler 阅读计数行变更后使热门排行缓存失效
type BlogViewsHandler struct {
	invalidator TrendingInvalidator
}

func NewBlogViewsHandler(invalidator TrendingInvalidator) *BlogViewsHandler {
	return &BlogViewsHandler{invalidator: invalidator}
}

func (s *BlogViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("blog views consumer setup")
	return nil
}

func (s *BlogViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("blog views consumer cleanup")
	return nil
}

func (s *BlogViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-blog-views consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-blog-views process batch error", "err", err)
		return err
	}
	return nil
}

func (s *BlogViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "blog_views")
	if err != nil || canalMsg == nil {
		return nil
	}

	switch canalMsg.Type {
	case INSERT, UPDATE, DELETE:
		if err = s.invalidator.InvalidateTrending(ctx); err != nil {
			return errors.Wrap(err, "invalidate trending cache")
		}
	}
	return nil
}
