package run

import (
	"time"

	"github.com/John-Robertt/yais/internal/config"
	"github.com/John-Robertt/yais/internal/domain"
)

// Observer 用于把“运行进度/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 执行是单线程顺序的，Observer 实现不需要考虑并发。
type Observer interface {
	// OnStart 在 Execute 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig, total int)
	// OnResolve 在某个 URL 解析完成（成功或失败）时调用。
	OnResolve(idx, total int, origin, siteName string, images int, err error)
	// OnImageDone 在单张图片下载+探测完成时调用。
	OnImageDone(origin string, res domain.ImageResult, dur time.Duration)
	// OnItemDone 在某个 URL 处理完成时调用（用于每条结果的一行输出）。
	OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration)
}
