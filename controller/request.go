package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CtxUserIDKey Context 中 UserID 的 Key
// 放在 controller 包而不是 middlewares 包，避免循环引用
const CtxUserIDKey = "userID"

var ErrorUserNotLogin = errors.New("用户未登录")

// GetCurrentUser 获取当前登录用户 ID，未登录返回错误
func GetCurrentUser(c *gin.Context) (int64, error) {
	uid, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, ErrorUserNotLogin
	}
	userID, ok := uid.(int64)
	if !ok {
		return 0, ErrorUserNotLogin
	}
	return userID, nil
}

// getViewerID 观察者 ID，匿名返回 0
// 可选鉴权的读接口用它，logic 层把 0 当匿名观察者处理
func getViewerID(c *gin.Context) int64 {
	userID, err := GetCurrentUser(c)
	if err != nil {
		return 0
	}
	return userID
}

// getPathID 解析路径参数里的 ID
func getPathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// getPageInfo 分页参数，page 默认 1，size 默认 10 上限 100
func getPageInfo(c *gin.Context) (page, size int64) {
	page, _ = strconv.ParseInt(c.Query("page"), 10, 64)
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.ParseInt(c.Query("size"), 10, 64)
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}
