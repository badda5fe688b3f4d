package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/John-Robertt/yais/internal/domain"
	"github.com/John-Robertt/yais/internal/infra/cache"
)

// GetImageData 是解析入口：注册表查找 → 策略执行 → 结果规范化。
//
// 返回值：
// - 成功时总是非空切片（顺序 = 站点的自然媒体顺序）
// - 每次调用都重新解析（不记忆结果，只记忆凭证）
//
// store 为零值（Root 为空）时禁用所有凭证缓存；否则按策略名划分子目录，
// 两个策略的凭证永不碰撞。
func GetImageData(ctx context.Context, reg Registry, pageURL string, c *http.Client, store cache.Store) ([]domain.Image, error) {
	strategy, err := reg.Resolve(pageURL)
	if err != nil {
		return nil, err
	}

	var tokens TokenCache = NopTokenCache{}
	if store.Enabled() {
		sc, e := store.ForSite(strategy.Name())
		if e != nil {
			return nil, &Error{Site: strategy.Name(), Stage: "fetch", Err: e}
		}
		tokens = sc
	}

	imgs, err := strategy.Extract(ctx, pageURL, c, tokens)
	if err != nil {
		return nil, &Error{Site: strategy.Name(), Stage: stageOf(err), Err: err}
	}
	if len(imgs) == 0 {
		// 策略契约：要么报错要么产出；空结果视为解析契约被破坏。
		return nil, &Error{
			Site:  strategy.Name(),
			Stage: "parse",
			Err:   fmt.Errorf("未产出任何图片：%q", pageURL),
		}
	}
	return imgs, nil
}

// stageOf 把策略错误归入 fetch/parse 阶段（用于 report 的 error_code 分类）。
func stageOf(err error) string {
	var idErr *IDNotFoundError
	var markupErr *MarkupError
	if errors.As(err, &idErr) || errors.As(err, &markupErr) {
		return "parse"
	}
	return "fetch"
}
