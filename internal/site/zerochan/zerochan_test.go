package zerochan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sitex "github.com/John-Robertt/yais/internal/site"
)

const itemHTML = `<!DOCTYPE html>
<html><body>
<div id="large">
  <a class="preview" href="https://static.zerochan.net/Full.Image.%20Sample.2885273.jpg">full size</a>
</div>
</body></html>`

func TestExtract_PreviewAnchor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, itemHTML)
	}))
	defer srv.Close()

	pageURL := srv.URL + "/2885273"
	imgs, err := Strategy{}.Extract(context.Background(), pageURL, srv.Client(), sitex.NopTokenCache{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(imgs) != 1 {
		t.Fatalf("期望 1 张，实际 %d", len(imgs))
	}
	if imgs[0].URL != "https://static.zerochan.net/Full.Image.%20Sample.2885273.jpg" {
		t.Fatalf("URL 不符：%q", imgs[0].URL)
	}
	if imgs[0].Filename != "Full.Image. Sample.2885273.jpg" {
		t.Fatalf("文件名不符：%q", imgs[0].Filename)
	}
	if imgs[0].Origin != pageURL {
		t.Fatalf("Origin 不符：%q", imgs[0].Origin)
	}
}

func TestExtract_MissingPreviewAnchor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>empty</p></body></html>`)
	}))
	defer srv.Close()

	pageURL := srv.URL + "/1"
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
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	_, err := Strategy{}.Extract(context.Background(), srv.URL+"/1", srv.Client(), sitex.NopTokenCache{})

	var statusErr *sitex.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("期望 HTTPStatusError，实际：%T %v", err, err)
	}
}
