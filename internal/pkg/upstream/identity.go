package upstream

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// IdentityClient 调用认证服务解析令牌
type IdentityClient struct {
	authURL string
	client  *resty.Client
}

func NewIdentityClient(authURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		authURL: authURL,
		client:  newClient("identity", timeout),
	}
}

// Resolve 返回令牌对应的用户 id
// 4xx 或缺少 user_id 视为拒绝，网络错误、超时与 5xx 视为不可用
func (c *IdentityClient) Resolve(ctx context.Context, token string) (uint64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"token": token}).
		Post(c.authURL)
	if err != nil {
		return 0, errors.Wrapf(ErrUnavailable, "call identity service: %v", err)
	}

	status := resp.StatusCode()
	switch {
	case status >= http.StatusInternalServerError:
		return 0, errors.Wrapf(ErrUnavailable, "identity service status %d", status)
	case status != http.StatusOK:
		return 0, errors.Wrapf(ErrRejected, "identity service status %d", status)
	}

	userID, err := parseUserID(resp.Body())
	if err != nil {
		return 0, errors.Wrap(ErrRejected, err.Error())
	}
	return userID, nil
}

// parseUserID 兼容顶层 user_id 与统一响应体 data.user_id，数字或字符串均可
func parseUserID(body []byte) (uint64, error) {
	var payload struct {
		UserID any `json:"user_id"`
		Data   *struct {
			UserID any `json:"user_id"`
		} `json:"data"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return 0, errors.Wrap(err, "decode identity response")
	}

	raw := payload.UserID
	if raw == nil && payload.Data != nil {
		raw = payload.Data.UserID
	}

	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return 0, errors.New("identity response without user_id")
	}

	userID, err := strconv.ParseUint(text, 10, 64)
	if err != nil || userID == 0 {
		return 0, errors.Errorf("invalid user_id %q", text)
	}
	return userID, nil
}
