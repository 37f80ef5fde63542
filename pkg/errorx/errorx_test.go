package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeErrorAs(t *testing.T) {
	wrapped := fmt.Errorf("logic: %w", ErrLastAdmin)

	var codeErr *CodeError
	if !errors.As(wrapped, &codeErr) {
		t.Fatal("包装后的 CodeError 应能被 errors.As 解出")
	}
	if codeErr.Code != CodeLastAdmin {
		t.Errorf("Code = %d, want %d", codeErr.Code, CodeLastAdmin)
	}
}

func TestSentinelIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is 应匹配预定义实例")
	}
	if errors.Is(wrapped, ErrPermission) {
		t.Error("不同实例不应互相匹配")
	}
}

// 错误种类必须可区分：Conflict、PermissionDenied、NotFound、Validation 各有独立码
func TestErrorKindsDistinct(t *testing.T) {
	codes := map[int]string{}
	for _, e := range []*CodeError{
		ErrNotFound, ErrPermission, ErrNameTaken, ErrInvalidRole,
		ErrAlreadyMember, ErrNotMember, ErrLastAdmin, ErrPendingApproval,
	} {
		if prev, ok := codes[e.Code]; ok && prev != e.Msg {
			// 同码复用要求语义一致（如 Validation 下的两个枚举错误）
			if e.Code != CodeValidation {
				t.Errorf("错误码 %d 被 %q 和 %q 复用", e.Code, prev, e.Msg)
			}
		}
		codes[e.Code] = e.Msg
	}
	if ErrNameTaken.Code == ErrPermission.Code || ErrNameTaken.Code == ErrNotFound.Code {
		t.Error("Conflict 必须和 PermissionDenied/NotFound 可区分")
	}
}

func TestNewf(t *testing.T) {
	e := Newf(CodeValidation, "非法的值: %s", "foo")
	if e.Error() != "非法的值: foo" {
		t.Errorf("Newf() = %q", e.Error())
	}
}
