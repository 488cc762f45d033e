package upstream

import (
	"net/http"
	"strings"
)

// 逐跳头部，代理的请求与响应两侧都不转发
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// StripHopHeaders 删除逐跳头，Connection 中声明的头一并删除
func StripHopHeaders(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopHeaders {
		h.Del(name)
	}
}

// CopyResponseHeader 把下游响应头写入 dst，同名头以下游为准
// Content-Length 由网关写 body 时重新计算
func CopyResponseHeader(dst, src http.Header) {
	h := src.Clone()
	if h == nil {
		return
	}
	StripHopHeaders(h)
	h.Del("Content-Length")
	for name, values := range h {
		dst[name] = values
	}
}
