package provider

import (
	"fmt"
	"strings"
)

// HTTPStatusError 表示远端 API 返回了非 2xx 的 HTTP 状态码。
// Message 取自响应体中的 status_message（若有），便于直接展示给用户。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// Error 是 provider 阶段的可追溯错误。
// 上层据此区分“搜索失败/详情失败/发现失败”，并写入日志。
type Error struct {
	Provider string // provider name（小写）
	Stage    string // 见 Stage* 常量
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider=%s stage=%s: %v", e.Provider, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
