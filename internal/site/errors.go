package site

import (
	"fmt"
	"strings"
)

// UnsupportedURLError 表示没有任何已注册前缀命中输入 URL。
// 该错误不重试，直接面向用户（提示对应站点未支持）。
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	if e == nil {
		return "unsupported url"
	}
	return fmt.Sprintf("不支持的 URL：%q", e.URL)
}

// IDNotFoundError 表示站点策略要求的标识符（推文 id / 作品 id）在 URL 中不存在。
// 该错误不重试：输入 URL 本身不含可提取的 id。
type IDNotFoundError struct {
	Site string
	URL  string
}

func (e *IDNotFoundError) Error() string {
	if e == nil {
		return "id not found"
	}
	return fmt.Sprintf("site=%s：URL %q 中找不到标识符", e.Site, e.URL)
}

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
// Strategy 可以返回该错误，让上层生成更可操作的 error_msg。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d（%s）", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d location=%s（%s）", e.StatusCode, loc, e.URL)
}

// MarkupError 表示页面/响应的结构契约被破坏：期望的元素或字段不存在
// （对 moebooru 而言，主路径与兜底路径都已尝试过）。
// 站点改版预期会触发该错误；错误信息必须带上来源 URL 以便定位。
type MarkupError struct {
	Site    string
	URL     string
	Missing string // 缺失的元素/字段描述，例如 "a.highres-show / Post.register"
}

func (e *MarkupError) Error() string {
	if e == nil {
		return "markup error"
	}
	return fmt.Sprintf("site=%s：页面 %q 缺少 %s（疑似站点改版）", e.Site, e.URL, e.Missing)
}

// Error 是策略执行阶段的可追溯错误（来源站点 + 阶段）。
// 上层可据此把失败归类为 fetch_failed / parse_failed，并写入 report。
type Error struct {
	Site  string
	Stage string // "fetch" 或 "parse"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("site=%s stage=%s: %v", e.Site, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
