package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
	Body   []byte
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Forwarder 原样转发请求，非 2xx 响应同样返回给调用方
type Forwarder struct {
	client *resty.Client
}

func NewForwarder(timeout time.Duration) *Forwarder {
	return &Forwarder{client: newClient("forward", timeout)}
}

func (f *Forwarder) Forward(ctx context.Context, req *Request) (*Response, error) {
	r := f.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(req.Query)
	// 直接替换头部以保留同名头的多个值
	if req.Header != nil {
		r.Header = req.Header.Clone()
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "%s %s: %v", req.Method, req.URL, err)
	}

	return &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
	}, nil
}
