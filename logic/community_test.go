package logic

import (
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"普通名称", "Gopher Club", "gopher-club"},
		{"多余空白折叠", "Go   Study  Group", "go-study-group"},
		{"标点折叠", "C++ & Rust!", "c-rust"},
		{"保留数字", "Web3 Builders", "web3-builders"},
		{"首尾连字符去除", "  --hello--  ", "hello"},
		{"纯符号兜底", "!!!", "community"},
		{"空串兜底", "", "community"},
		{"大写转小写", "UNIHUB", "unihub"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.in); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsDuplicateErr(t *testing.T) {
	dup := &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !isDuplicateErr(dup) {
		t.Error("1062 应识别为唯一键冲突")
	}
	if !isDuplicateErr(fmt.Errorf("insert community failed: %w", dup)) {
		t.Error("包装后的 1062 也应识别")
	}
	if isDuplicateErr(&gomysql.MySQLError{Number: 1452}) {
		t.Error("其他 MySQL 错误码不是唯一键冲突")
	}
}

func TestIsDuplicateErrNonMySQL(t *testing.T) {
	if isDuplicateErr(nil) {
		t.Error("nil 不是唯一键冲突")
	}
	if isDuplicateErr(errTest) {
		t.Error("普通错误不是唯一键冲突")
	}
}

var errTest = errorString("boom")

type errorString string

func (e errorString) Error() string { return string(e) }
