package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ErrCodeNotFound 表示 CLI 显式指定了配置文件但文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// DefaultDest 是下载目录的最终默认值（当 CLI 与配置文件都未指定时）。
const DefaultDest = "."

// CLIArgs 只包含 CLI 暴露的配置项（dest/cache-dir/config），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 -d . 必须能覆盖 config.dest。
type CLIArgs struct {
	Dest    string
	DestSet bool

	CacheDir    string
	CacheDirSet bool

	// ConfigPath 显式指定配置文件；为空时尝试读取 <cwd>/yais.json（可选）。
	ConfigPath string
}

// FileConfig 对应 yais.json 的解析结构。
type FileConfig struct {
	Dest       string       `json:"dest"`
	CacheDir   string       `json:"cache_dir"`
	Proxy      *ProxyConfig `json:"proxy"`
	ImageProxy bool         `json:"image_proxy"`

	// PixivBaseURL 允许在默认镜像不可达时切换镜像域名（可选，高级能力）。
	PixivBaseURL string `json:"pixiv_base_url"`
	// TwitterAPIBaseURL 仅用于联调/测试时替换 API 域名（可选）。
	TwitterAPIBaseURL string `json:"twitter_api_base_url"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
// （实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Dest string

	// CacheDir 为空表示禁用所有凭证缓存。
	CacheDir string

	ProxyURL   string
	ImageProxy bool

	PixivBaseURL      string
	TwitterAPIBaseURL string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须读取该文件（不存在即报错）
// 2) 否则：尝试读取 <cwd>/yais.json（可选，不存在不报错）
//
// 覆盖优先级（固定）：
// - dest：CLI -d > config dest > 默认 "."
// - cache_dir：CLI --cache-dir > config cache_dir > 空（禁用缓存）
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := strings.TrimSpace(cli.ConfigPath)
	explicit := cfgPath != ""
	if !explicit {
		cfgPath = filepath.Join(cwdAbs, "yais.json")
	} else if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(cwdAbs, cfgPath)
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if explicit && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// dest：CLI > config > 默认
	dest := DefaultDest
	if cli.DestSet {
		dest = cli.Dest
	} else if strings.TrimSpace(fc.Dest) != "" {
		dest = fc.Dest
	}
	dest = absCleanFrom(cwdAbs, dest)

	// cache_dir：CLI > config > 空（禁用）
	cacheDir := ""
	if cli.CacheDirSet {
		cacheDir = strings.TrimSpace(cli.CacheDir)
	} else {
		cacheDir = strings.TrimSpace(fc.CacheDir)
	}
	if cacheDir != "" {
		cacheDir = absCleanFrom(cwdAbs, cacheDir)
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}
	if fc.ImageProxy && proxyURL == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("image_proxy=true 但 proxy.url 为空")}
	}

	pixivBaseURL, err := validateBaseURL("pixiv_base_url", fc.PixivBaseURL)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	twitterAPIBaseURL, err := validateBaseURL("twitter_api_base_url", fc.TwitterAPIBaseURL)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		Dest:              dest,
		CacheDir:          cacheDir,
		ProxyURL:          proxyURL,
		ImageProxy:        fc.ImageProxy,
		PixivBaseURL:      pixivBaseURL,
		TwitterAPIBaseURL: twitterAPIBaseURL,
	}, nil
}

func validateBaseURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%s 无效：%q", field, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%s 必须是 http/https：%q", field, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func readFileConfig(path string) (FileConfig, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	var fc FileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}

func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}
