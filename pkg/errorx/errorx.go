package errorx

import "fmt"

// CodeError 带业务错误码的自定义错误
// Logic 层返回 CodeError，Controller 层据此决定响应码
type CodeError struct {
	Code int
	Msg  string
}

func (e *CodeError) Error() string {
	return e.Msg
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// 业务错误码常量定义
const (
	CodeInvalidParam    = 1001
	CodeUserExist       = 1002
	CodeUserNotExist    = 1003
	CodeInvalidPassword = 1004
	CodeServerBusy      = 1005
	CodeNeedLogin       = 1006
	CodeInvalidToken    = 1007
	CodeNotFound        = 1008
	CodePermission      = 1009 // 无权限（角色/成员身份不足）
	CodeConflict        = 1010 // 唯一性冲突（如社区重名）
	CodeValidation      = 1011 // 非法枚举值等校验失败
	CodeAlreadyMember   = 1012
	CodeNotMember       = 1013
	CodeLastAdmin       = 1014 // 操作会让社区失去最后一名管理员
	CodePendingApproval = 1015

	CodeRateLimitExceeded = 1030
)

// 预定义常用错误实例（Logic 层可直接返回）
var (
	ErrInvalidParam    = New(CodeInvalidParam, "请求参数错误")
	ErrUserExist       = New(CodeUserExist, "用户名已存在")
	ErrUserNotExist    = New(CodeUserNotExist, "用户名不存在")
	ErrInvalidPassword = New(CodeInvalidPassword, "用户名或密码错误")
	ErrServerBusy      = New(CodeServerBusy, "服务繁忙")
	ErrNeedLogin       = New(CodeNeedLogin, "需要登录")
	ErrInvalidToken    = New(CodeInvalidToken, "无效的Token")
	ErrNotFound        = New(CodeNotFound, "资源不存在")
	ErrPermission      = New(CodePermission, "没有操作权限")
	ErrNameTaken       = New(CodeConflict, "该名称已被占用")
	ErrInvalidRole     = New(CodeValidation, "非法的成员角色")
	ErrInvalidVisible  = New(CodeValidation, "非法的可见性设置")
	ErrAlreadyMember   = New(CodeAlreadyMember, "已经是该社区成员")
	ErrNotMember       = New(CodeNotMember, "不是该社区成员")
	ErrLastAdmin       = New(CodeLastAdmin, "社区必须保留至少一名管理员")
	ErrPendingApproval = New(CodePendingApproval, "入社申请正在审批中")
	ErrNoPendingFound  = New(CodeNotFound, "没有待审批的申请")
)
