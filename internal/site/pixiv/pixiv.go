package pixiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/John-Robertt/yais/internal/domain"
	sitex "github.com/John-Robertt/yais/internal/site"
)

// Strategy 实现 Pixiv 的作品解析（镜像跳转方案）。
//
// Pixiv 官方站点有反爬拦截；这里通过镜像服务取图：
// 对 <mirror>/<id>.png 发 HEAD，镜像在 x-origin-url 响应头里给出
// 原始资源地址，文件名从该地址的 basename 推导（如 77005971_p0.jpg）。
type Strategy struct {
	// BaseURL 允许指定镜像服务地址（测试指向本地服务）；为空时使用默认镜像。
	BaseURL string
}

const defaultBaseURL = "https://pixiv.cat"

// 作品 id：URL 中第一段 ≥7 位的连续数字。
var workIDRE = regexp.MustCompile(`\d{7,}`)

func (Strategy) Name() string { return "pixiv" }

func (Strategy) Prefixes() []string {
	return []string{
		"https://www.pixiv.net",
		"https://pixiv.net",
		"http://www.pixiv.net",
		"http://pixiv.net",
	}
}

func (s Strategy) baseURL() string {
	u := strings.TrimSpace(s.BaseURL)
	if u == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (s Strategy) Extract(ctx context.Context, pageURL string, c *http.Client, _ sitex.TokenCache) ([]domain.Image, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}

	workID := workIDRE.FindString(pageURL)
	if workID == "" {
		return nil, &sitex.IDNotFoundError{Site: "pixiv", URL: pageURL}
	}

	imgURL := fmt.Sprintf("%s/%s.png", s.baseURL(), workID)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imgURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &sitex.HTTPStatusError{URL: imgURL, StatusCode: resp.StatusCode}
	}

	originURL := strings.TrimSpace(resp.Header.Get("x-origin-url"))
	if originURL == "" {
		return nil, &sitex.MarkupError{Site: "pixiv", URL: imgURL, Missing: "x-origin-url 响应头"}
	}

	return []domain.Image{{
		URL:      imgURL,
		Filename: sitex.FilenameFromURL(originURL),
		Origin:   pageURL,
	}}, nil
}
