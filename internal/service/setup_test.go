package service

import (
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

// setNow 固定 timeNow，测试结束后还原
func setNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

func day(offset int) time.Time {
	return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedBlog(t *testing.T, db *gorm.DB, authorID, categoryID uint64, title, status string) *model.Blog {
	t.Helper()
	b := &model.Blog{
		Title:      title,
		Content:    title + " content",
		Status:     status,
		AuthorID:   authorID,
		CategoryID: categoryID,
		CreatedAt:  fixedNow,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func seedViews(t *testing.T, db *gorm.DB, blogID uint64, date time.Time, count int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.BlogView{BlogID: blogID, ViewDate: date, ViewCount: count}).Error)
}

func published(t *testing.T, db *gorm.DB, authorID, categoryID uint64, title string) *model.Blog {
	return seedBlog(t, db, authorID, categoryID, title, consts.BlogStatusPublished)
}
