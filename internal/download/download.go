package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/John-Robertt/yais/internal/domain"
	"github.com/John-Robertt/yais/internal/infra/fsx"
	sitex "github.com/John-Robertt/yais/internal/site"
)

// Save 下载一条 Image 到 destDir/<Filename>，返回落盘路径。
//
// 约束：
// - Referer 设为 Image.Origin（部分源站校验来源页）
// - 非 2xx 状态直接报错（*site.HTTPStatusError），不重试
// - 流式写入临时文件后原子替换，不留半截文件
func Save(ctx context.Context, c *http.Client, img domain.Image, destDir string) (string, error) {
	if c == nil {
		return "", errors.New("http client 不能为空")
	}
	if strings.TrimSpace(img.URL) == "" {
		return "", errors.New("image.URL 不能为空")
	}
	if strings.TrimSpace(img.Filename) == "" {
		return "", errors.New("image.Filename 不能为空")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("destDir 不能为空")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return "", err
	}
	if img.Origin != "" {
		req.Header.Set("Referer", img.Origin)
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 把 body 排干以便连接复用；内容本身没有意义。
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &sitex.HTTPStatusError{URL: img.URL, StatusCode: resp.StatusCode}
	}

	return fsx.SaveStreamAtomic(destDir, img.Filename, resp.Body)
}
