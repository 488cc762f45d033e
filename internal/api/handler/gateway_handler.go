package handler

import (
	"Booklet/internal/pkg/consts"
	"Booklet/internal/pkg/logger"
	"Booklet/internal/pkg/response"
	"Booklet/internal/pkg/upstream"
	"Booklet/internal/service"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type GatewayHandler struct {
	gatewaySvc service.GatewayService
}

func NewGatewayHandler(gatewaySvc service.GatewayService) *GatewayHandler {
	return &GatewayHandler{gatewaySvc: gatewaySvc}
}

// Proxy 处理 /:service/*path
func (h *GatewayHandler) Proxy(c *gin.Context) {
	h.forward(c, c.Param("service"), c.Param("path"))
}

// ProxyByQuery 处理 /?service=&path=
func (h *GatewayHandler) ProxyByQuery(c *gin.Context) {
	h.forward(c, c.Query("service"), c.Query("path"))
}

func (h *GatewayHandler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

func (h *GatewayHandler) forward(c *gin.Context, serviceName, path string) {
	ctx := c.Request.Context()

	// 未知服务不做认证也不转发
	if _, err := h.gatewaySvc.Resolve(serviceName); err != nil {
		response.Error(c, err)
		return
	}

	var userID uint64
	if !h.gatewaySvc.IsPublic(serviceName, path) {
		id, err := h.gatewaySvc.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			return
		}
		userID = id
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	header := c.Request.Header.Clone()
	if traceID := c.GetString(logger.TraceIDKey); traceID != "" {
		header.Set(consts.HeaderTraceID, traceID)
	}

	resp, err := h.gatewaySvc.Forward(ctx, &service.GatewayRequest{
		Service: serviceName,
		Path:    path,
		Method:  c.Request.Method,
		Header:  header,
		Query:   c.Request.URL.Query(),
		Body:    body,
	}, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	upstream.CopyResponseHeader(c.Writer.Header(), resp.Header)
	contentType := resp.Header.Get("Content-Type")
	if resp.Status == http.StatusNoContent || resp.Status == http.StatusNotModified {
		c.Status(resp.Status)
		return
	}
	c.Data(resp.Status, contentType, resp.Body)
}
