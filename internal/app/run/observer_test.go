package run

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/John-Robertt/yais/internal/config"
	"github.com/John-Robertt/yais/internal/domain"
	"github.com/John-Robertt/yais/internal/site"
)

type recordObserver struct {
	startCalls int
	startTotal int

	resolves []string
	images   []string
	items    []string
}

func (o *recordObserver) OnStart(eff config.EffectiveConfig, total int) {
	o.startCalls++
	o.startTotal = total
}

func (o *recordObserver) OnResolve(idx, total int, origin, siteName string, images int, err error) {
	o.resolves = append(o.resolves, origin)
}

func (o *recordObserver) OnImageDone(origin string, res domain.ImageResult, dur time.Duration) {
	o.images = append(o.images, res.URL)
}

func (o *recordObserver) OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration) {
	o.items = append(o.items, res.Origin)
}

func TestExecuteWithObserver_Events(t *testing.T) {
	body := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	reg, err := site.NewRegistry(stubStrategy{
		name:     "stub",
		prefixes: []string{"https://stub.test/"},
		images: []domain.Image{
			{URL: srv.URL + "/1.png", Filename: "1.png"},
			{URL: srv.URL + "/2.png", Filename: "2.png"},
		},
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	obs := &recordObserver{}
	urls := []string{"https://stub.test/post/1", "https://unknown.test/x"}
	ExecuteWithObserver(context.Background(), config.EffectiveConfig{Dest: t.TempDir()}, reg, urls, obs)

	if obs.startCalls != 1 || obs.startTotal != 2 {
		t.Fatalf("OnStart 不符：calls=%d total=%d", obs.startCalls, obs.startTotal)
	}
	// 每个输入 URL 恰好一次 OnResolve / OnItemDone，保持输入顺序。
	if len(obs.resolves) != 2 || obs.resolves[0] != urls[0] || obs.resolves[1] != urls[1] {
		t.Fatalf("OnResolve 不符：%v", obs.resolves)
	}
	if len(obs.items) != 2 || obs.items[0] != urls[0] || obs.items[1] != urls[1] {
		t.Fatalf("OnItemDone 不符：%v", obs.items)
	}
	// 只有成功解析的条目会触发 OnImageDone。
	if len(obs.images) != 2 {
		t.Fatalf("OnImageDone 不符：%v", obs.images)
	}
}

func TestExecute_NilObserverSafe(t *testing.T) {
	reg, err := site.NewRegistry(stubStrategy{
		name:     "stub",
		prefixes: []string{"https://stub.test/"},
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	rr := ExecuteWithObserver(context.Background(), config.EffectiveConfig{Dest: t.TempDir()}, reg, []string{"https://other.test/"}, nil)
	if rr.Summary.Failed != 1 {
		t.Fatalf("summary 不符：%+v", rr.Summary)
	}
}
