package job

import (
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	viewTotalsBatchSize = 500
	viewTotalsLockTTL   = 5 * time.Minute
)

// ViewTotalsJob 修复 total_views 与每日计数之和不一致的博客
type ViewTotalsJob struct {
	blogViewSvc service.BlogViewService
}

func NewViewTotalsJob(blogViewSvc service.BlogViewService) *ViewTotalsJob {
	return &ViewTotalsJob{blogViewSvc: blogViewSvc}
}

func (s *ViewTotalsJob) Run() {
	traceID := "job-view-totals-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	// 多实例部署时只允许一个实例执行
	lockUUID := uuid.NewString()
	ok, err := redis.TryLock(ctx, consts.ViewTotalsJobLock, lockUUID, viewTotalsLockTTL, 0)
	if err != nil || !ok {
		log.InfoContext(ctx, "view totals job skipped, lock held elsewhere", "err", err)
		return
	}
	defer redis.UnLock(ctx, consts.ViewTotalsJobLock, lockUUID)

	fixed, err := s.blogViewSvc.ReconcileTotals(ctx, viewTotalsBatchSize)
	if err != nil {
		log.ErrorContext(ctx, "reconcile blog total views error", "err", err)
		return
	}
	if fixed > 0 {
		if err = s.blogViewSvc.InvalidateTrending(ctx); err != nil {
			log.WarnContext(ctx, "invalidate trending cache error", "err", err)
		}
	}
	log.InfoContext(ctx, "view totals job finished", "fixed", fixed)
}
