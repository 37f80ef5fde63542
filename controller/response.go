package controller

import (
	"errors"
	"net/http"

	"unihub/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CodeSuccess = 1000

// ResponseData 统一响应结构体
type ResponseData struct {
	Code int `json:"code"`
	Msg  any `json:"msg"`
	Data any `json:"data,omitempty"`
}

// ResponseSuccess 成功响应
func ResponseSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, &ResponseData{
		Code: CodeSuccess,
		Msg:  "success",
		Data: data,
	})
}

// ResponseError 按业务错误码返回
func ResponseError(c *gin.Context, e *errorx.CodeError) {
	c.JSON(http.StatusOK, &ResponseData{
		Code: e.Code,
		Msg:  e.Msg,
	})
}

// ResponseErrorWithMsg 自定义消息的错误响应（参数校验翻译结果等）
func ResponseErrorWithMsg(c *gin.Context, code int, msg any) {
	c.JSON(http.StatusOK, &ResponseData{
		Code: code,
		Msg:  msg,
	})
}

// ResponseFromError 把 logic 层错误映射成响应
// CodeError 原样透出；其余一律 ServerBusy，细节只进日志不出公网
func ResponseFromError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		ResponseError(c, codeErr)
		return
	}
	zap.L().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	ResponseError(c, errorx.ErrServerBusy)
}
