package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/yais/internal/app/run"
	"github.com/John-Robertt/yais/internal/config"
	"github.com/John-Robertt/yais/internal/domain"
)

// logObserver 把 run 层的事件渲染为彩色进度行（stderr/彩色输出），
// 调试细节走 logrus；stdout 留给 --json 的 RunReport。
type logObserver struct {
	log *logrus.Logger
}

func newLogObserver(log *logrus.Logger) *logObserver {
	return &logObserver{log: log}
}

func (o *logObserver) OnStart(eff config.EffectiveConfig, total int) {
	o.log.Debugf("dest=%s cache_dir=%s proxy=%s urls=%d", eff.Dest, eff.CacheDir, eff.ProxyURL, total)
}

func (o *logObserver) OnResolve(idx, total int, origin, siteName string, images int, err error) {
	if err != nil {
		return // 失败统一在 OnItemDone 输出，避免重复行
	}
	fmt.Fprintf(color.Output, "[%d/%d] %s %s（%s，%d 张）\n",
		idx, total,
		color.HiMagentaString("解析"),
		origin,
		color.HiWhiteString(siteName),
		images,
	)
}

func (o *logObserver) OnImageDone(origin string, res domain.ImageResult, dur time.Duration) {
	if res.Status == domain.FileStatusSaved {
		fmt.Fprintf(color.Output, "  [%s] %s %dx%d（%s）\n",
			color.HiGreenString("+"),
			res.Path,
			res.Width, res.Height,
			dur.Round(time.Millisecond),
		)
		return
	}
	fmt.Fprintf(color.Output, "  [%s] %s：%s\n",
		color.HiRedString("-"),
		res.URL,
		color.HiYellowString(res.ErrorMsg),
	)
}

func (o *logObserver) OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration) {
	if res.Status == domain.StatusFailed {
		fmt.Fprintf(color.Output, "[%d/%d] [%s] %s：%s\n",
			idx, total,
			color.HiRedString("!"),
			res.Origin,
			color.HiYellowString(res.ErrorMsg),
		)
		return
	}
	o.log.Debugf("%s 完成（%s）", res.Origin, dur.Round(time.Millisecond))
}

// 编译期断言：logObserver 必须实现 run.Observer。
var _ run.Observer = (*logObserver)(nil)
