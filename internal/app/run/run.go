package run

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/John-Robertt/yais/internal/config"
	"github.com/John-Robertt/yais/internal/domain"
	"github.com/John-Robertt/yais/internal/download"
	"github.com/John-Robertt/yais/internal/infra/cache"
	"github.com/John-Robertt/yais/internal/infra/httpx"
	"github.com/John-Robertt/yais/internal/infra/imgx"
	"github.com/John-Robertt/yais/internal/site"
)

// Execute 按顺序处理一批输入 URL，并返回对外稳定的 RunReport。
// 该函数尽量把错误“降级”为 item 级失败：单个 URL 失败不影响其余 URL。
func Execute(ctx context.Context, eff config.EffectiveConfig, reg site.Registry, urls []string) domain.RunReport {
	return ExecuteWithObserver(ctx, eff, reg, urls, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, reg site.Registry, urls []string, obs Observer) domain.RunReport {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff, len(urls))
	}

	rr := domain.RunReport{
		Dest:      eff.Dest,
		StartedAt: started,
		Items:     make([]domain.ItemResult, 0, len(urls)),
	}

	pageClient, err := httpx.NewPageClient(eff.ProxyURL)
	if err != nil {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeConfigInvalid, fmt.Sprintf("proxy.url 无效：%v", err)))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}
	imageClient, err := httpx.NewImageClient(eff.ProxyURL, eff.ImageProxy)
	if err != nil {
		rr.Items = append(rr.Items, syntheticFailed(domain.ErrCodeConfigInvalid, err.Error()))
		rr.FinishedAt = time.Now().UTC()
		rr.Finalize()
		return rr
	}

	store := cache.New(eff.CacheDir)

	for i, u := range urls {
		oneStarted := time.Now()
		item := execOne(ctx, eff, reg, u, pageClient, imageClient, store, i, len(urls), obs)
		rr.Items = append(rr.Items, item)
		if obs != nil {
			obs.OnItemDone(i+1, len(urls), item, time.Since(oneStarted))
		}
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

func execOne(ctx context.Context, eff config.EffectiveConfig, reg site.Registry, origin string, pageClient, imageClient *http.Client, store cache.Store, idx, total int, obs Observer) domain.ItemResult {
	item := domain.ItemResult{
		Origin: origin,
		Status: domain.StatusProcessed, // 失败时覆盖
		Images: []domain.ImageResult{},
	}

	// 只为 report 的 site 字段做一次前缀查找；真正的执行在 GetImageData 里。
	if s, err := reg.Resolve(origin); err == nil {
		item.Site = s.Name()
	}

	imgs, err := site.GetImageData(ctx, reg, origin, pageClient, store)
	if obs != nil {
		obs.OnResolve(idx+1, total, origin, item.Site, len(imgs), err)
	}
	if err != nil {
		item.Status = domain.StatusFailed
		item.ErrorCode = classify(err)
		item.ErrorMsg = err.Error()
		return item
	}

	for _, img := range imgs {
		imgStarted := time.Now()
		res := saveAndProbe(ctx, imageClient, img, eff.Dest)
		item.Images = append(item.Images, res)
		if obs != nil {
			obs.OnImageDone(origin, res, time.Since(imgStarted))
		}
		if res.Status == domain.FileStatusFailed && item.Status != domain.StatusFailed {
			item.Status = domain.StatusFailed
			if item.ErrorCode == "" {
				item.ErrorCode = imageErrorCode(res)
			}
			item.ErrorMsg = res.ErrorMsg
		}
	}
	return item
}

func saveAndProbe(ctx context.Context, imageClient *http.Client, img domain.Image, dest string) domain.ImageResult {
	res := domain.ImageResult{URL: img.URL}

	path, err := download.Save(ctx, imageClient, img, dest)
	if err != nil {
		res.Status = domain.FileStatusFailed
		res.ErrorMsg = fmt.Sprintf("下载失败：%v", err)
		return res
	}
	res.Path = path

	size, err := imgx.ProbeSize(path)
	if err != nil {
		// 文件已落盘但尺寸探测失败：标记失败但保留路径（文件本身可能仍可用）。
		res.Status = domain.FileStatusFailed
		res.ErrorMsg = fmt.Sprintf("尺寸探测失败：%v", err)
		return res
	}
	res.Width = size.Width
	res.Height = size.Height
	res.Status = domain.FileStatusSaved
	return res
}

// classify 把解析错误映射为 report 的 error_code。
func classify(err error) string {
	var unsupported *site.UnsupportedURLError
	if errors.As(err, &unsupported) {
		return domain.ErrCodeUnsupportedURL
	}
	var idErr *site.IDNotFoundError
	if errors.As(err, &idErr) {
		return domain.ErrCodeIDNotFound
	}
	var siteErr *site.Error
	if errors.As(err, &siteErr) && siteErr.Stage == "parse" {
		return domain.ErrCodeParseFailed
	}
	return domain.ErrCodeFetchFailed
}

func imageErrorCode(res domain.ImageResult) string {
	if res.Path == "" {
		return domain.ErrCodeDownloadFailed
	}
	return domain.ErrCodeProbeFailed
}

func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		Origin:    "",
		Site:      "",
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
		Images:    []domain.ImageResult{},
	}
}
