package zerochan

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/yais/internal/domain"
	sitex "github.com/John-Robertt/yais/internal/site"
)

// Strategy 实现 Zerochan 的条目解析：页面里 a.preview 锚点指向全尺寸图。
type Strategy struct{}

func (Strategy) Name() string { return "zerochan" }

func (Strategy) Prefixes() []string {
	return []string{
		"https://www.zerochan.net/",
		"https://zerochan.net/",
	}
}

func (Strategy) Extract(ctx context.Context, pageURL string, c *http.Client, _ sitex.TokenCache) ([]domain.Image, error) {
	body, err := fetchPage(ctx, c, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	href, ok := doc.Find("a.preview").First().Attr("href")
	imgURL := strings.TrimSpace(href)
	if !ok || imgURL == "" {
		return nil, &sitex.MarkupError{Site: "zerochan", URL: pageURL, Missing: "a.preview 锚点"}
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
		return nil, &sitex.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}
