package api

import (
	"Booklet/internal/api/handler"
	"Booklet/internal/api/middleware"
	"Booklet/internal/model"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/security"
	"Booklet/internal/pkg/testutil"
	"Booklet/internal/repository"
	"Booklet/internal/service"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, r *gin.Engine, method, target string, body io.Reader, header map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.Code)
	return w.Code, env
}

func asUser(id string) map[string]string {
	return map[string]string{consts.HeaderUserID: id}
}

func TestProfileRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)

	followSvc := service.NewFollowService(repository.NewFollowRepository(db))
	r := SetupProfileRouter(&HandlersGroup{
		Identity:      middleware.NewIdentityVerifier(nil, "profile"),
		FollowHandler: handler.NewFollowHandler(followSvc),
	})

	code, _ := call(t, r, http.MethodPost, "/api/follow/2", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, r, http.MethodPost, "/api/follow/2", nil, asUser("1"))
	require.Equal(t, http.StatusOK, code)
	var state struct {
		Following bool `json:"following"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Following)

	code, _ = call(t, r, http.MethodPost, "/api/follow/1", nil, asUser("1"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodGet, "/api/users/2/followers/count", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	code, env = call(t, r, http.MethodGet, "/api/users/2/followers?limit=1", nil, asUser("2"))
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []struct {
			UserID uint64 `json:"user_id"`
			Mutual bool   `json:"mutual"`
		} `json:"items"`
		NextCursor *uint64 `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint64(1), page.Items[0].UserID)
	assert.False(t, page.Items[0].Mutual)
	require.NotNil(t, page.NextCursor)

	code, _ = call(t, r, http.MethodGet, "/api/followers/stats?period=2w", nil, asUser("2"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodGet, "/api/isfollow/2", nil, asUser("1"))
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "true")
}

func TestBlogsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	testutil.NewTestRedis(t)

	blogRepo := repository.NewBlogRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	viewSvc := service.NewBlogViewService(repository.NewBlogViewRepository(db), blogRepo, time.Minute)
	r := SetupBlogsRouter(&HandlersGroup{
		Identity:        middleware.NewIdentityVerifier(nil, "blogs"),
		BlogHandler:     handler.NewBlogHandler(service.NewBlogService(blogRepo, catalogRepo, viewSvc)),
		BlogViewHandler: handler.NewBlogViewHandler(viewSvc),
		CatalogHandler:  handler.NewCatalogHandler(service.NewCatalogService(catalogRepo)),
	})

	code, _ := call(t, r, http.MethodPost, "/api/blogs", strings.NewReader(`{"title":"t","content":"c","new_category":"tech"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, r, http.MethodPost, "/api/blogs",
		strings.NewReader(`{"title":"t","content":"c","new_category":"tech","tags":"go"}`), asUser("1"))
	require.Equal(t, http.StatusOK, code, env.Message)
	var blog struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &blog))
	assert.Equal(t, consts.BlogStatusDraft, blog.Status)
	target := "/api/blogs/" + strconv.FormatUint(blog.ID, 10)

	code, _ = call(t, r, http.MethodPost, target+"/view", nil, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodGet, target, nil, asUser("2"))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, http.MethodPatch, target+"/status", strings.NewReader(`{"status":"published"}`), asUser("2"))
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, r, http.MethodPatch, target+"/status", strings.NewReader(`{"status":"published"}`), asUser("1"))
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodPost, target+"/view", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		ViewCount  int64 `json:"view_count"`
		TotalViews int64 `json:"total_views"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(1), view.TotalViews)

	code, _ = call(t, r, http.MethodPost, "/api/blogs/abc/view", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, r, http.MethodPost, "/api/blogs/999/view", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = call(t, r, http.MethodGet, "/api/blogs/trending?days=7", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"window_views":1`)

	code, _ = call(t, r, http.MethodGet, "/api/blogs/trending?days=31", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodGet, "/api/blogs/views?group_by=daily&period=7&blog_ids="+strconv.FormatUint(blog.ID, 10), nil, nil)
	require.Equal(t, http.StatusOK, code)
	var grouped struct {
		Views             []json.RawMessage `json:"views"`
		TotalViewsCurrent int64             `json:"total_views_current"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &grouped))
	assert.Len(t, grouped.Views, 7)
	assert.Equal(t, int64(1), grouped.TotalViewsCurrent)

	code, _ = call(t, r, http.MethodGet, "/api/blogs/views?group_by=hourly&period=7&blog_ids=1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodGet, "/api/blogs/user/1/views?group_by=monthly&period=3", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, "/api/blogs/user/5/views?group_by=monthly&period=3", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = call(t, r, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"tech"`)

	var count int64
	require.NoError(t, db.Model(&model.BlogView{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.NewTestRedis(t)

	issuer := security.NewTokenIssuer("secret", "auth")
	tokenSvc := service.NewTokenService(issuer, time.Minute, time.Hour)
	r := SetupAuthRouter(&HandlersGroup{
		TokenHandler:   handler.NewTokenHandler(tokenSvc),
		AuthMiddleware: middleware.AuthMiddleware(tokenSvc),
	})

	access, err := issuer.GenerateToken(42, consts.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	refresh, err := issuer.GenerateToken(42, consts.TokenTypeRefresh, time.Hour)
	require.NoError(t, err)

	code, env := call(t, r, http.MethodPost, "/api/validate-token", strings.NewReader(`{"token":"`+access+`"}`), nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"user_id":42}`, string(env.Data))

	code, _ = call(t, r, http.MethodPost, "/api/validate-token", strings.NewReader(`{}`), nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = call(t, r, http.MethodPost, "/api/auth/refresh-token", strings.NewReader(`{"refresh_token":"`+refresh+`"}`), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "access_token")

	code, _ = call(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, r, http.MethodPost, "/api/auth/logout", nil, map[string]string{"Authorization": "Bearer " + access})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodPost, "/api/validate-token", strings.NewReader(`{"token":"`+access+`"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
