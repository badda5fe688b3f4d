package moebooru

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/John-Robertt/yais/internal/domain"
	sitex "github.com/John-Robertt/yais/internal/site"
)

// Strategy 实现 moebooru 系图板（konachan / yande.re）的帖子解析。
//
// 解析链（健壮性核心，主路径优先，两条都失败才报错）：
// 1. 主路径：页面里 a.highres-show 锚点的 href（站点改版时容易失效）
// 2. 兜底：内联脚本里 Post.register({...}) 的 JSON 对象，取 file_url 字段
//    （数据内嵌，比标记结构更稳定）
type Strategy struct{}

var postRegisterRE = regexp.MustCompile(`Post\.register\(({.+})\)`)

func (Strategy) Name() string { return "moebooru" }

func (Strategy) Prefixes() []string {
	return []string{
		"https://konachan.net/post/show/",
		"http://konachan.net/post/show/",
		"https://konachan.com/post/show/",
		"http://konachan.com/post/show/",
		"https://yande.re/post/show/",
	}
}

func (Strategy) Extract(ctx context.Context, pageURL string, c *http.Client, _ sitex.TokenCache) ([]domain.Image, error) {
	body, err := fetchPage(ctx, c, pageURL)
	if err != nil {
		return nil, err
	}

	imgURL := ""
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err == nil {
		if href, ok := doc.Find("a.highres-show").First().Attr("href"); ok {
			imgURL = strings.TrimSpace(href)
		}
	}

	if imgURL == "" {
		if m := postRegisterRE.FindSubmatch(body); m != nil {
			imgURL = strings.TrimSpace(gjson.GetBytes(m[1], "file_url").String())
		}
	}
	if imgURL == "" {
		return nil, &sitex.MarkupError{
			Site:    "moebooru",
			URL:     pageURL,
			Missing: "a.highres-show 锚点与 Post.register 的 file_url",
		}
	}

	return []domain.Image{{
		URL:      imgURL,
		Filename: sitex.FilenameFromURL(imgURL),
		Origin:   pageURL,
	}}, nil
}

func fetchPage(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		loc := strings.TrimSpace(resp.Header.Get("Location"))
		return nil, &sitex.HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: loc}
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}
