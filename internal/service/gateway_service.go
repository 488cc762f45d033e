package service

import (
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/security"
	"Booklet/internal/pkg/upstream"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// 由 http 客户端重新计算的请求头
var recomputedHeaders = []string{"Host", "Content-Length"}

// 客户端不可伪造的身份头
var identityHeaders = []string{
	consts.HeaderUserID,
	consts.HeaderIdentityAssertion,
}

// 网关自身的路由参数
var routingParams = []string{"service", "path"}

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (uint64, error)
}

type RequestForwarder interface {
	Forward(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// GatewayRequest 待转发的入站请求
type GatewayRequest struct {
	Service string
	Path    string
	Method  string
	Header  http.Header
	Query   url.Values
	Body    []byte
}

type GatewayService interface {
	// Resolve 返回服务的基础地址，未知服务返回 ErrServiceNotFound
	Resolve(service string) (string, error)
	// IsPublic 公开路径无需认证
	IsPublic(service, path string) bool
	// Authenticate 解析 Authorization 头并调用认证服务
	Authenticate(ctx context.Context, authorization string) (uint64, error)
	// Forward userID 为 0 表示匿名请求，不注入身份
	Forward(ctx context.Context, req *GatewayRequest, userID uint64) (*upstream.Response, error)
}

type gatewayServiceImpl struct {
	services     map[string]string
	publicExact  map[string]struct{}
	publicPrefix []string
	identity     IdentityResolver
	forwarder    RequestForwarder
	asserter     *security.TokenIssuer
	assertionTTL time.Duration
}

// NewGatewayService asserter 为 nil 时只注入 X-User-Id
func NewGatewayService(
	services map[string]string,
	publicPaths []string,
	identity IdentityResolver,
	forwarder RequestForwarder,
	asserter *security.TokenIssuer,
	assertionTTL time.Duration,
) GatewayService {
	s := &gatewayServiceImpl{
		services:     make(map[string]string, len(services)),
		publicExact:  make(map[string]struct{}),
		identity:     identity,
		forwarder:    forwarder,
		asserter:     asserter,
		assertionTTL: assertionTTL,
	}
	for name, base := range services {
		s.services[strings.ToLower(name)] = strings.TrimRight(base, "/")
	}
	for _, p := range publicPaths {
		p = "/" + strings.Trim(strings.TrimSpace(p), "/")
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			s.publicPrefix = append(s.publicPrefix, prefix)
			continue
		}
		s.publicExact[p] = struct{}{}
	}
	return s
}

func (s *gatewayServiceImpl) Resolve(service string) (string, error) {
	base, ok := s.services[strings.ToLower(service)]
	if !ok || base == "" {
		return "", ErrServiceNotFound
	}
	return base, nil
}

func (s *gatewayServiceImpl) IsPublic(service, path string) bool {
	full := "/" + strings.ToLower(service) + "/" + strings.TrimLeft(path, "/")
	full = strings.TrimRight(full, "/")
	if _, ok := s.publicExact[full]; ok {
		return true
	}
	for _, prefix := range s.publicPrefix {
		if strings.HasPrefix(full, prefix) {
			return true
		}
	}
	return false
}

func (s *gatewayServiceImpl) Authenticate(ctx context.Context, authorization string) (uint64, error) {
	token, ok := security.ExtractBearer(authorization)
	if !ok {
		return 0, ErrTokenMissing
	}

	userID, err := s.identity.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, upstream.ErrRejected) {
			return 0, ErrIdentityRejected
		}
		log.ErrorContext(ctx, "identity service unavailable", "err", err)
		return 0, ErrIdentityUnavailable
	}
	return userID, nil
}

func (s *gatewayServiceImpl) Forward(ctx context.Context, req *GatewayRequest, userID uint64) (*upstream.Response, error) {
	base, err := s.Resolve(req.Service)
	if err != nil {
		return nil, err
	}

	header := sanitizeHeader(req.Header)
	if userID != 0 {
		header.Set(consts.HeaderUserID, strconv.FormatUint(userID, 10))
		if s.asserter != nil {
			assertion, err := s.asserter.GenerateAssertion(userID, strings.ToLower(req.Service), s.assertionTTL)
			if err != nil {
				return nil, fmt.Errorf("sign identity assertion: %w", err)
			}
			header.Set(consts.HeaderIdentityAssertion, assertion)
		}
	}

	query := make(url.Values, len(req.Query))
	for k, v := range req.Query {
		query[k] = append([]string(nil), v...)
	}
	for _, p := range routingParams {
		query.Del(p)
	}

	resp, err := s.forwarder.Forward(ctx, &upstream.Request{
		Method: req.Method,
		URL:    base + "/" + strings.TrimLeft(req.Path, "/"),
		Header: header,
		Query:  query,
		Body:   req.Body,
	})
	if err != nil {
		log.ErrorContext(ctx, "forward request failed", "service", req.Service, "path", req.Path, "err", err)
		return nil, ErrUpstreamUnavailable
	}
	return resp, nil
}

// sanitizeHeader 复制请求头并移除逐跳头与身份头
func sanitizeHeader(in http.Header) http.Header {
	out := in.Clone()
	if out == nil {
		out = make(http.Header)
	}
	upstream.StripHopHeaders(out)
	for _, h := range recomputedHeaders {
		out.Del(h)
	}
	for _, h := range identityHeaders {
		out.Del(h)
	}
	return out
}
