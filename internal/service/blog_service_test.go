package service

import (
	"Booklet/internal/api/dto"
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/redis"
	"Booklet/internal/pkg/testutil"
	"Booklet/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBlogService(t *testing.T) (BlogService, *gorm.DB) {
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)
	setNow(t, fixedNow)
	blogRepo := repository.NewBlogRepository(db)
	viewSvc := NewBlogViewService(repository.NewBlogViewRepository(db), blogRepo, time.Minute)
	return NewBlogService(blogRepo, repository.NewCatalogRepository(db), viewSvc), db
}

func TestCreateBlogWithNewCatalog(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{
		Title:          "  Hello  ",
		Content:        "body",
		NewCategory:    "tech",
		NewSubCategory: "go",
		Tags:           "Go, gorm ,go",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", blog.Title)
	assert.Equal(t, consts.BlogStatusDraft, blog.Status)
	assert.Equal(t, "tech", blog.CategoryName)
	assert.Equal(t, "go", blog.SubCategoryName)
	assert.ElementsMatch(t, []string{"go", "gorm"}, blog.TagList)

	// 已存在的分类名称复用原记录
	again, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", NewCategory: "tech", Tags: "go"})
	require.NoError(t, err)
	assert.Equal(t, blog.CategoryID, again.CategoryID)

	var tags int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(2), tags)
}

func TestCreateBlogCatalogValidation(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	tech := seedCategory(t, db, "tech")
	life := seedCategory(t, db, "life")
	sub := &model.SubCategory{Name: "travel", CategoryID: life.ID}
	require.NoError(t, db.Create(sub).Error)

	missing := uint64(999)
	cases := []struct {
		name string
		in   *dto.BlogBaseDTO
		want error
	}{
		{"no category", &dto.BlogBaseDTO{Title: "t", Content: "c"}, ErrParamInvalid},
		{"unknown category", &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &missing}, ErrCategoryNotFound},
		{"foreign subcategory", &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &tech.ID, SubCategoryID: &sub.ID}, ErrSubCategoryNotFound},
		{"subcategory under new category", &dto.BlogBaseDTO{Title: "t", Content: "c", NewCategory: "x", SubCategoryID: &sub.ID}, ErrSubCategoryNotFound},
		{"bad status", &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &tech.ID, Status: "hidden"}, ErrParamInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.CreateBlog(ctx, 1, c.in)
			assert.ErrorIs(t, err, c.want)
		})
	}

	blog, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &life.ID, SubCategoryID: &sub.ID})
	require.NoError(t, err)
	assert.Equal(t, "travel", blog.SubCategoryName)
}

func TestBlogOwnership(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	cat := seedCategory(t, db, "tech")

	blog, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &cat.ID, Tags: "a,b"})
	require.NoError(t, err)

	_, err = svc.GetBlog(ctx, 2, blog.ID)
	assert.ErrorIs(t, err, ErrBlogNotFound)
	_, err = svc.GetBlog(ctx, 1, blog.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, 2, blog.ID, consts.BlogStatusPublished), ErrNotBlogOwner)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, 1, blog.ID, "hidden"), ErrInvalidBlogStatus)
	require.NoError(t, svc.UpdateStatus(ctx, 1, blog.ID, consts.BlogStatusPublished))

	got, err := svc.GetBlog(ctx, 0, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.BlogStatusPublished, got.Status)

	updated, err := svc.UpdateBlog(ctx, 1, blog.ID, &dto.BlogBaseDTO{Title: "new", Content: "c2", CategoryID: &cat.ID, Tags: "c"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, []string{"c"}, updated.TagList)
	assert.Equal(t, consts.BlogStatusPublished, updated.Status)

	_, err = svc.UpdateBlog(ctx, 2, blog.ID, &dto.BlogBaseDTO{Title: "x", Content: "x", CategoryID: &cat.ID})
	assert.ErrorIs(t, err, ErrNotBlogOwner)

	assert.ErrorIs(t, svc.DeleteBlog(ctx, 2, blog.ID), ErrNotBlogOwner)
	require.NoError(t, svc.DeleteBlog(ctx, 1, blog.ID))
	_, err = svc.GetBlog(ctx, 1, blog.ID)
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestPublishInvalidatesTrending(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	cat := seedCategory(t, db, "tech")

	_, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &cat.ID})
	require.NoError(t, err)
	ver, _ := redis.GetValue(ctx, consts.BlogTrendingVerKey)
	assert.Empty(t, ver)

	_, err = svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &cat.ID, Status: consts.BlogStatusPublished})
	require.NoError(t, err)
	ver, _ = redis.GetValue(ctx, consts.BlogTrendingVerKey)
	assert.Equal(t, "1", ver)
}

func TestUnpublishInvalidatesTrending(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	cat := seedCategory(t, db, "tech")

	blog, err := svc.CreateBlog(ctx, 1, &dto.BlogBaseDTO{Title: "t", Content: "c", CategoryID: &cat.ID, Status: consts.BlogStatusPublished})
	require.NoError(t, err)
	ver, _ := redis.GetValue(ctx, consts.BlogTrendingVerKey)
	require.Equal(t, "1", ver)

	// published -> draft 同样要让排行失效
	_, err = svc.UpdateBlog(ctx, 1, blog.ID, &dto.BlogBaseDTO{Title: "t2", Content: "c", CategoryID: &cat.ID, Status: consts.BlogStatusDraft})
	require.NoError(t, err)
	ver, _ = redis.GetValue(ctx, consts.BlogTrendingVerKey)
	assert.Equal(t, "2", ver)

	// 草稿之间的编辑不影响排行
	_, err = svc.UpdateBlog(ctx, 1, blog.ID, &dto.BlogBaseDTO{Title: "t3", Content: "c", CategoryID: &cat.ID})
	require.NoError(t, err)
	ver, _ = redis.GetValue(ctx, consts.BlogTrendingVerKey)
	assert.Equal(t, "2", ver)

	require.NoError(t, svc.UpdateStatus(ctx, 1, blog.ID, consts.BlogStatusPublished))
	ver, _ = redis.GetValue(ctx, consts.BlogTrendingVerKey)
	assert.Equal(t, "3", ver)
}

func TestListBlogs(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	cat := seedCategory(t, db, "tech")
	other := seedCategory(t, db, "life")

	a := published(t, db, 1, cat.ID, "Learning Go")
	b := published(t, db, 2, other.ID, "Trip notes")
	draft := seedBlog(t, db, 1, cat.ID, "secret", consts.BlogStatusDraft)
	require.NoError(t, db.Model(&model.Blog{ID: b.ID}).UpdateColumn("created_at", fixedNow.AddDate(0, 0, -5)).Error)
	require.NoError(t, db.Model(&model.Blog{ID: a.ID}).UpdateColumn("total_views", 10).Error)
	require.NoError(t, db.Create(&model.Tag{Name: "golang"}).Error)
	var tag model.Tag
	require.NoError(t, db.Where("name = ?", "golang").First(&tag).Error)
	require.NoError(t, db.Create(&model.BlogTag{BlogID: a.ID, TagID: tag.ID}).Error)

	list, err := svc.ListPublished(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = svc.ListLatest(ctx, &dto.BlogListDTO{BlogFilterDTO: dto.BlogFilterDTO{Search: "GO"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = svc.ListLatest(ctx, &dto.BlogListDTO{StartDate: "2026-10-10", EndDate: "2026-10-13"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	minViews := int64(5)
	list, err = svc.ListLatest(ctx, &dto.BlogListDTO{MinViews: &minViews})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = svc.ListLatest(ctx, &dto.BlogListDTO{StartDate: "2026-10-13", EndDate: "2026-10-10"})
	assert.ErrorIs(t, err, ErrParamInvalid)
	_, err = svc.ListLatest(ctx, &dto.BlogListDTO{StartDate: "10/13/2026"})
	assert.ErrorIs(t, err, ErrParamInvalid)

	list, err = svc.ListByTag(ctx, " GoLang ", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = svc.ListByTag(ctx, "a,b", 1, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)

	list, err = svc.ListByCategory(ctx, other.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	_, err = svc.ListByCategory(ctx, 999, 1, 10)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	list, err = svc.ListByAuthor(ctx, 0, 1, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.ListByAuthor(ctx, 1, 1, consts.BlogStatusDraft, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, draft.ID, list[0].ID)
}
