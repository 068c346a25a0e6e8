package dto

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"terminal-terrace/engtheory/internal/logging"
	res "terminal-terrace/engtheory/packages/response"
)

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(200, res.SuccessResponse(data))
}

// ErrorResponse 业务错误按错误码返回，其它错误记录日志后返回通用失败
func ErrorResponse(c *gin.Context, err error) {
	var be *res.BusinessError
	if !errors.As(err, &be) {
		logging.Errorf("%s %s: 未归类的错误: %v", c.Request.Method, c.FullPath(), err)
		be = res.NewBusinessError(
			res.WithErrorCode(res.Fail),
			res.WithErrorMessage("服务器内部错误"),
			res.WithError(err),
		)
	}
	if be.Code == res.Integrity || be.Code == res.Fail {
		logging.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), be)
	}
	c.JSON(200, res.FromError(be))
}

// ParseErrorResponse 请求体或参数无法解析
func ParseErrorResponse(c *gin.Context, err error) {
	ErrorResponse(c, res.NewBusinessError(
		res.WithErrorCode(res.ParseError),
		res.WithErrorMessage("请检查参数"),
		res.WithError(err),
	))
}

// ParseID 解析路径中的 ID 参数，失败时已写入错误响应
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		ErrorResponse(c, res.NewBusinessError(
			res.WithErrorCode(res.ParseError),
			res.WithErrorMessage("无效的ID: "+c.Param(name)),
		))
		return 0, false
	}
	return uint(id), true
}
