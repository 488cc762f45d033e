package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/pkg/util"
	"Booklet/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultTrendingDays = 7
	MaxTrendingDays     = 30
	MaxGroupedPeriod    = 365
)

const (
	GroupByDaily   = "daily"
	GroupByMonthly = "monthly"
	GroupByYearly  = "yearly"
)

type BlogViewService interface {
	// RecordView 记录一次阅读，并按计数行之和重算累计阅读量
	RecordView(ctx context.Context, blogID uint64) (*dto.RecordViewDTO, error)
	// GetTrending 最近 days 天阅读量排行
	GetTrending(ctx context.Context, query *dto.TrendingQueryDTO) ([]*dto.TrendingBlogDTO, error)
	// GetMostWatched 累计阅读量排行
	GetMostWatched(ctx context.Context, query *dto.MostWatchedQueryDTO) ([]*dto.BlogDTO, error)
	// GetGroupedViews 按日/月/年汇总阅读量并计算环比
	GetGroupedViews(ctx context.Context, blogIDs []uint64, groupBy string, period int) (*dto.GroupedViewsDTO, error)
	// GetUserGroupedViews 汇总某作者全部博客的阅读量
	GetUserGroupedViews(ctx context.Context, userID uint64, groupBy string, period int) (*dto.GroupedViewsDTO, error)
	// ReconcileTotals 修复 total_views 与计数行不一致的博客，返回修复数量
	ReconcileTotals(ctx context.Context, batchSize int) (int, error)
	// InvalidateTrending 使热门排行缓存失效
	InvalidateTrending(ctx context.Context) error
}

type blogViewServiceImpl struct {
	blogViewRepo repository.BlogViewRepo
	blogRepo     repository.BlogRepo
	trendingTTL  time.Duration
}

func NewBlogViewService(
	blogViewRepo repository.BlogViewRepo,
	blogRepo repository.BlogRepo,
	trendingTTL time.Duration,
) BlogViewService {
	return &blogViewServiceImpl{
		blogViewRepo: blogViewRepo,
		blogRepo:     blogRepo,
		trendingTTL:  trendingTTL,
	}
}

func (s *blogViewServiceImpl) RecordView(ctx context.Context, blogID uint64) (*dto.RecordViewDTO, error) {
	if blogID == 0 {
		return nil, ErrParamInvalid
	}

	today := util.GetMidnight(timeNow())
	res, err := s.blogViewRepo.RecordView(ctx, blogID, today, func(blog *model.Blog) error {
		if blog.Status != consts.BlogStatusPublished {
			return ErrBlogNotPublished
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	return &dto.RecordViewDTO{
		BlogID:     res.BlogID,
		ViewDate:   res.ViewDate.Format(time.DateOnly),
		ViewCount:  res.ViewCount,
		TotalViews: res.TotalViews,
	}, nil
}

func (s *blogViewServiceImpl) GetTrending(ctx context.Context, query *dto.TrendingQueryDTO) ([]*dto.TrendingBlogDTO, error) {
	days := query.Days
	if days == 0 {
		days = DefaultTrendingDays
	}
	if days < 1 || days > MaxTrendingDays || query.Skip < 0 {
		return nil, ErrParamInvalid
	}
	limit := normalizeLimit(query.Limit, DefaultPageSize)

	filter, err := toBlogFilter(&query.BlogFilterDTO)
	if err != nil {
		return nil, err
	}

	key := s.trendingKey(ctx, days, query.Skip, limit, &query.BlogFilterDTO)
	var cached []*dto.TrendingBlogDTO
	if hit, _ := redis.GetJSON(ctx, key, &cached); hit {
		return cached, nil
	}

	// 含今天在内的 days 个自然日，与按日分组的窗口一致
	since := util.GetMidnight(timeNow()).AddDate(0, 0, -(days - 1))
	sums, err := s.blogViewRepo.SumViewsByBlog(ctx, since, filter, query.Skip, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(sums))
	for _, row := range sums {
		ids = append(ids, row.BlogID)
	}
	blogs, err := s.blogRepo.GetBlogsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	blogMap := make(map[uint64]*model.Blog, len(blogs))
	for _, b := range blogs {
		blogMap[b.ID] = b
	}

	res := make([]*dto.TrendingBlogDTO, 0, len(sums))
	for _, row := range sums {
		blog, ok := blogMap[row.BlogID]
		if !ok {
			continue
		}
		res = append(res, &dto.TrendingBlogDTO{
			BlogDTO:     *toBlogDTO(blog),
			WindowViews: row.Views,
		})
	}

	if s.trendingTTL > 0 {
		if err = redis.SetJSON(ctx, key, res, s.trendingTTL); err != nil {
			log.WarnContext(ctx, "cache trending failed", "err", err)
		}
	}

	return res, nil
}

func (s *blogViewServiceImpl) GetMostWatched(ctx context.Context, query *dto.MostWatchedQueryDTO) ([]*dto.BlogDTO, error) {
	filter := &repository.BlogFilter{
		Status:        consts.BlogStatusPublished,
		CategoryID:    query.CategoryID,
		SubCategoryID: query.SubCategoryID,
	}
	blogs, err := s.blogRepo.ListMostWatched(ctx, filter, normalizeLimit(query.Limit, DefaultPageSize))
	if err != nil {
		return nil, err
	}
	return toBlogDTOs(blogs), nil
}

func (s *blogViewServiceImpl) GetUserGroupedViews(ctx context.Context, userID uint64, groupBy string, period int) (*dto.GroupedViewsDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}
	ids, err := s.blogRepo.GetBlogIDsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoBlogsForUser
	}
	return s.GetGroupedViews(ctx, ids, groupBy, period)
}

func (s *blogViewServiceImpl) GetGroupedViews(ctx context.Context, blogIDs []uint64, groupBy string, period int) (*dto.GroupedViewsDTO, error) {
	if period < 1 || period > MaxGroupedPeriod {
		return nil, ErrParamInvalid
	}
	if len(blogIDs) == 0 {
		return nil, ErrBlogNotFound
	}

	w, err := newViewWindow(timeNow(), groupBy, period)
	if err != nil {
		return nil, err
	}

	rows, err := s.blogViewRepo.SumViewsByDate(ctx, blogIDs, w.start, w.end)
	if err != nil {
		return nil, err
	}
	previous, err := s.blogViewRepo.SumViews(ctx, blogIDs, w.prevStart, w.start)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	var current int64
	for _, row := range rows {
		totals[row.ViewDate.UTC().Format(w.layout)] += row.Total
		current += row.Total
	}

	views := make([]*dto.ViewBucketDTO, 0, period)
	for t := w.start; t.Before(w.end); t = w.next(t) {
		key := t.Format(w.layout)
		views = append(views, &dto.ViewBucketDTO{Period: key, TotalViews: totals[key]})
	}

	return &dto.GroupedViewsDTO{
		StartDate:          w.start.Format(time.DateOnly),
		EndDate:            w.today.Format(time.DateOnly),
		GroupBy:            groupBy,
		Views:              views,
		TotalViewsCurrent:  current,
		TotalViewsPrevious: previous,
		PercentageChange:   util.PercentageChange(current, previous),
	}, nil
}

func (s *blogViewServiceImpl) ReconcileTotals(ctx context.Context, batchSize int) (int, error) {
	ids, err := s.blogViewRepo.ListDriftedBlogIDs(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, id := range ids {
		total, err := s.blogViewRepo.ResyncTotal(ctx, id)
		if err != nil {
			log.ErrorContext(ctx, "resync blog total views failed", "blog_id", id, "err", err)
			continue
		}
		log.InfoContext(ctx, "blog total views resynced", "blog_id", id, "total_views", total)
		fixed++
	}
	return fixed, nil
}

func (s *blogViewServiceImpl) InvalidateTrending(ctx context.Context) error {
	_, err := redis.Incr(ctx, consts.BlogTrendingVerKey)
	return err
}

// trendingKey 缓存键包含版本号与全部查询参数
func (s *blogViewServiceImpl) trendingKey(ctx context.Context, days, skip, limit int, f *dto.BlogFilterDTO) string {
	ver, _ := redis.GetValue(ctx, consts.BlogTrendingVerKey)
	if ver == "" {
		ver = "0"
	}
	parts := []string{
		ver,
		strconv.Itoa(days),
		strconv.Itoa(skip),
		strconv.Itoa(limit),
		optUint(f.CategoryID),
		optUint(f.SubCategoryID),
		f.Author,
		f.TagIDs,
		strings.ToLower(f.Search),
	}
	return consts.BlogTrendingKey + strings.Join(parts, ":")
}

func optUint(v *uint64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(*v, 10)
}

// viewWindow 当前统计窗口 [start, end) 与等长的上一窗口 [prevStart, start)
type viewWindow struct {
	today     time.Time
	start     time.Time
	end       time.Time
	prevStart time.Time
	layout    string
	next      func(time.Time) time.Time
}

func newViewWindow(now time.Time, groupBy string, period int) (*viewWindow, error) {
	today := util.GetMidnight(now)
	w := &viewWindow{today: today}

	switch groupBy {
	case GroupByDaily:
		w.layout = time.DateOnly
		w.next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		w.end = today.AddDate(0, 0, 1)
		w.start = today.AddDate(0, 0, -(period - 1))
		w.prevStart = w.start.AddDate(0, 0, -period)
	case GroupByMonthly:
		month := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		w.layout = "2006-01"
		w.next = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		w.end = month.AddDate(0, 1, 0)
		w.start = month.AddDate(0, -(period - 1), 0)
		w.prevStart = w.start.AddDate(0, -period, 0)
	case GroupByYearly:
		year := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		w.layout = "2006"
		w.next = func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }
		w.end = year.AddDate(1, 0, 0)
		w.start = year.AddDate(-(period - 1), 0, 0)
		w.prevStart = w.start.AddDate(-period, 0, 0)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidGroupBy, groupBy)
	}
	return w, nil
}
