package site

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/John-Robertt/yais/internal/domain"
)

// Strategy 把“站点变化”限制在各站点包内部；核心流程只依赖统一接口与稳定的 Image。
//
// 约束：
// - Extract 不做缓存、不做重试、不做限速（这些由核心 http/cache 层统一实现）
// - Extract 必须总是返回切片（单图站点返回长度为 1 的切片），禁止单值/序列二义
// - 产出的每条 Image 的 Origin 必须逐字等于传入的 pageURL
// - Prefixes 是字面前缀（含协议与域名变体，如 http/https、带不带 www.）
type Strategy interface {
	Name() string
	Prefixes() []string
	Extract(ctx context.Context, pageURL string, c *http.Client, tokens TokenCache) ([]domain.Image, error)
}

// TokenCache 是按站点隔离的凭证缓存视图（只有需要会话凭证的站点使用）。
//
// 约束：
// - Read 是 best-effort：文件缺失/不可读/为空都视为“无缓存”（ok=false），绝不报错
// - Write 覆盖旧值；调用方可以忽略写入错误（凭证可幂等重取，丢缓存不致命）
type TokenCache interface {
	Read() (value string, ok bool)
	Write(value string) error
}

// NopTokenCache 是禁用缓存时的占位实现（Read 永远 miss，Write 丢弃）。
type NopTokenCache struct{}

func (NopTokenCache) Read() (string, bool) { return "", false }
func (NopTokenCache) Write(string) error   { return nil }

// FilenameFromURL 从资源 URL 推导本地文件名：path 的 basename，再做百分号解码。
// 该推导是幂等的：对已解码的名字再次调用结果不变。
func FilenameFromURL(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	// 先取 basename 再解码：避免 %2F 解码出的 '/' 改变切分结果。
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	return strings.TrimSpace(name)
}
