package upstream

import (
	"Booklet/internal/pkg/logger"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

var (
	// ErrRejected 上游明确拒绝，例如令牌无效
	ErrRejected = errors.New("upstream rejected")
	// ErrUnavailable 网络错误、超时或上游 5xx
	ErrUnavailable = errors.New("upstream unavailable")
)

const DefaultTimeout = 5 * time.Second

// newClient 统一的 resty 客户端：有限超时、不跟随重定向、goccy 编解码
func newClient(name string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return logger.SetupResty(client, name)
}
