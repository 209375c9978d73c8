package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// TruncateString 截斷過長字串，用於日誌
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// ContainsString 判斷切片是否包含指定字串（大小寫敏感）
func ContainsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}

// RemoveString 移除切片中所有等於 s 的元素，返回新切片
func RemoveString(slice []string, s string) []string {
	out := make([]string, 0, len(slice))
	for _, v := range slice {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// IsBlank 判斷字串是否僅含空白
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
