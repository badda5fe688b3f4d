package moebooru

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sitex "github.com/John-Robertt/yais/internal/site"
)

const highresHTML = `<!DOCTYPE html>
<html><body>
<div id="post-view">
  <a class="highres-show" href="https://files.yande.re/image/e7b0d395/yande.re%20573334%20animal_ears%20seifuku.jpg">View larger version</a>
</div>
</body></html>`

const fallbackHTML = `<!DOCTYPE html>
<html><body>
<div id="post-view"></div>
<script type="text/javascript">
  Post.register({"id": 292001, "file_url": "https://konachan.net/image/543f77cc/Konachan.com%20-%20292001%20anthropomorphism.jpg", "rating": "s"});
</script>
</body></html>`

const barrenHTML = `<!DOCTYPE html><html><body><p>nothing here</p></body></html>`

func newPostServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, html)
	}))
}

func TestExtract_HighresAnchor(t *testing.T) {
	srv := newPostServer(t, highresHTML)
	defer srv.Close()

	pageURL := srv.URL + "/post/show/573334"
	imgs, err := Strategy{}.Extract(context.Background(), pageURL, srv.Client(), sitex.NopTokenCache{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(imgs) != 1 {
		t.Fatalf("期望 1 张，实际 %d", len(imgs))
	}
	if imgs[0].URL != "https://files.yande.re/image/e7b0d395/yande.re%20573334%20animal_ears%20seifuku.jpg" {
		t.Fatalf("URL 不符：%q", imgs[0].URL)
	}
	// 文件名必须是百分号解码后的 basename。
	if imgs[0].Filename != "yande.re 573334 animal_ears seifuku.jpg" {
		t.Fatalf("文件名不符：%q", imgs[0].Filename)
	}
	if imgs[0].Origin != pageURL {
		t.Fatalf("Origin 不符：%q", imgs[0].Origin)
	}
}

func TestExtract_FallbackToPostRegister(t *testing.T) {
	// 主路径锚点缺失：必须落到内嵌 JSON 的 file_url。
	srv := newPostServer(t, fallbackHTML)
	defer srv.Close()

	pageURL := srv.URL + "/post/show/292001"
	imgs, err := Strategy{}.Extract(context.Background(), pageURL, srv.Client(), sitex.NopTokenCache{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if imgs[0].URL != "https://konachan.net/image/543f77cc/Konachan.com%20-%20292001%20anthropomorphism.jpg" {
		t.Fatalf("URL 不符：%q", imgs[0].URL)
	}
	if imgs[0].Filename != "Konachan.com - 292001 anthropomorphism.jpg" {
		t.Fatalf("文件名不符：%q", imgs[0].Filename)
	}
}

func TestExtract_BothPathsExhausted(t *testing.T) {
	srv := newPostServer(t, barrenHTML)
	defer srv.Close()

	pageURL := srv.URL + "/post/show/1"
	_, err := Strategy{}.Extract(context.Background(), pageURL, srv.Client(), sitex.NopTokenCache{})

	var markupErr *sitex.MarkupError
	if !errors.As(err, &markupErr) {
		t.Fatalf("期望 MarkupError，实际：%T %v", err, err)
	}
	if markupErr.URL != pageURL {
		t.Fatalf("错误必须带上来源 URL：%q", markupErr.URL)
	}
}

func TestExtract_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := Strategy{}.Extract(context.Background(), srv.URL+"/post/show/1", srv.Client(), sitex.NopTokenCache{})

	var statusErr *sitex.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("期望 HTTPStatusError，实际：%T %v", err, err)
	}
}

func TestPrefixes_CoverBothBoardFlavors(t *testing.T) {
	// konachan 与 yande.re 共用同一策略（两种 board 风味）。
	var prefixes = Strategy{}.Prefixes()
	want := map[string]bool{
		"https://konachan.net/post/show/": false,
		"https://konachan.com/post/show/": false,
		"https://yande.re/post/show/":     false,
	}
	for _, p := range prefixes {
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Fatalf("缺少前缀 %q", p)
		}
	}
}
