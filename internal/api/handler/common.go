package handler

import (
	"Booklet/internal/service"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseUintParam 解析路径参数中的 id
func parseUintParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}

// bindError gin 的绑定错误统一视为参数错误
func bindError(err error) error {
	return fmt.Errorf("%w: %s", service.ErrParamInvalid, err.Error())
}

func getPagination(c *gin.Context) (int, int) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize))

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = 1
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil {
		pageSize = service.DefaultPageSize
	}
	return page, pageSize
}
