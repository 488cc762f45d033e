package api

import (
	"Booklet/internal/api/handler"
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/security"
	"Booklet/internal/pkg/upstream"
	"Booklet/internal/service"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assertionSecret = "assertion-secret"

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type gatewayFixture struct {
	engine    *gin.Engine
	authCalls *atomic.Int32
	captured  chan capturedRequest
}

// newGatewayFixture 启动认证服务与 blogs 下游，令牌 good 对应用户 42
func newGatewayFixture(t *testing.T, authStatus int) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gatewayFixture{
		authCalls: &atomic.Int32{},
		captured:  make(chan capturedRequest, 1),
	}

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.authCalls.Add(1)
		var body struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if authStatus != http.StatusOK {
			w.WriteHeader(authStatus)
			_, _ = w.Write([]byte(`{"message":"` + http.StatusText(authStatus) + `"}`))
			return
		}
		if body.Token != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"invalid"}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":200,"message":"success","data":{"user_id":42}}`))
	}))
	t.Cleanup(auth.Close)

	blogs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.captured <- capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		}
		switch r.URL.Path {
		case "/api/missing":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"nope"}`))
		case "/api/moved":
			w.Header().Set("Location", "/api/new")
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("ETag", `"v1"`)
			w.Header().Add("Set-Cookie", "a=1")
			w.Header().Add("Set-Cookie", "b=2")
			w.WriteHeader(http.StatusFound)
		case "/api/slow":
			time.Sleep(300 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("ok"))
		}
	}))
	t.Cleanup(blogs.Close)

	gatewaySvc := service.NewGatewayService(
		map[string]string{"blogs": blogs.URL, "profile": ""},
		[]string{"/blogs/api/public/*", "/blogs/api/tags"},
		upstream.NewIdentityClient(auth.URL, time.Second),
		upstream.NewForwarder(100*time.Millisecond),
		security.NewTokenIssuer(assertionSecret, "gateway"),
		time.Minute,
	)
	f.engine = SetupGatewayRouter(&HandlersGroup{
		GatewayHandler: handler.NewGatewayHandler(gatewaySvc),
	})
	return f
}

func (f *gatewayFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *gatewayFixture) received(t *testing.T) capturedRequest {
	t.Helper()
	select {
	case r := <-f.captured:
		return r
	case <-time.After(time.Second):
		t.Fatal("downstream not called")
		return capturedRequest{}
	}
}

func TestGatewayUnknownServiceSkipsAuth(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	for _, target := range []string{"/unknown/api/x", "/profile/api/x", "/?service=unknown&path=/api/x"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer good")
		w := f.do(req)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
	assert.Zero(t, f.authCalls.Load())
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	w := f.do(httptest.NewRequest(http.MethodGet, "/blogs/api/blogs/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/blogs/me", nil)
	req.Header.Set("Authorization", "Basic Zm9v")
	w = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.authCalls.Load())
}

func TestGatewayRejectedToken(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/blogs/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int32(1), f.authCalls.Load())
	assert.Empty(t, f.captured)
}

func TestGatewayAuthServiceDown(t *testing.T) {
	f := newGatewayFixture(t, http.StatusInternalServerError)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/blogs/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := f.do(req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, f.captured)
}

func TestGatewayPublicPathBypassesAuth(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/public/latest?page=2", nil)
	req.Header.Set(consts.HeaderUserID, "1")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Zero(t, f.authCalls.Load())

	got := f.received(t)
	assert.Equal(t, "/api/public/latest", got.Path)
	assert.Equal(t, "page=2", got.Query)
	assert.Empty(t, got.Header.Get(consts.HeaderUserID))
	assert.Empty(t, got.Header.Get(consts.HeaderIdentityAssertion))
}

func TestGatewayForwardsIdentity(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/blogs/api/blogs?draft=1", strings.NewReader(`{"title":"t"}`))
	req.Header.Set("Authorization", "Bearer good")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(consts.HeaderUserID, "999")
	req.Header.Set(consts.HeaderIdentityAssertion, "forged")
	req.Header.Set(consts.HeaderTraceID, "trace-1")
	req.Header.Set("Connection", "X-Hop")
	req.Header.Set("X-Hop", "secret")
	req.Header.Set("Keep-Alive", "timeout=5")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get(consts.HeaderTraceID))

	got := f.received(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/blogs", got.Path)
	assert.Equal(t, "draft=1", got.Query)
	assert.Equal(t, `{"title":"t"}`, got.Body)
	assert.Equal(t, "42", got.Header.Get(consts.HeaderUserID))
	assert.Equal(t, "trace-1", got.Header.Get(consts.HeaderTraceID))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Empty(t, got.Header.Get("X-Hop"))
	assert.Empty(t, got.Header.Get("Keep-Alive"))

	userID, err := security.NewTokenIssuer(assertionSecret, "gateway").
		ValidateAssertion(got.Header.Get(consts.HeaderIdentityAssertion), "blogs")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestGatewayQueryRouting(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/?service=blogs&path=/api/tags&limit=5", nil)
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	got := f.received(t)
	assert.Equal(t, "/api/tags", got.Path)
	assert.Equal(t, "limit=5", got.Query)
}

func TestGatewayPassesThroughClientErrors(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/missing", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := f.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":404,"message":"nope"}`, w.Body.String())
}

func TestGatewayUpstreamTimeout(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/slow", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := f.do(req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGatewayHealthz(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, f.authCalls.Load())
}

func TestGatewayPassesThroughResponseHeaders(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/moved", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/new", w.Header().Get("Location"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, `"v1"`, w.Header().Get("ETag"))
	assert.Equal(t, []string{"a=1", "b=2"}, w.Header().Values("Set-Cookie"))
}

func TestGatewayKeepsRepeatedRequestHeaders(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/blogs/api/tags", nil)
	req.Header.Add("X-Multi", "a")
	req.Header.Add("X-Multi", "b")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	got := f.received(t)
	assert.Equal(t, []string{"a", "b"}, got.Header.Values("X-Multi"))
}

func TestGatewayServiceRootIsForwarded(t *testing.T) {
	f := newGatewayFixture(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader("x"))
	req.Header.Set("Authorization", "Bearer good")
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	got := f.received(t)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/", got.Path)
	assert.Equal(t, "x", got.Body)

	req = httptest.NewRequest(http.MethodPost, "/unknown", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = f.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
