package imgx

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"os"

	_ "golang.org/x/image/bmp"  // 注册 BMP 解码器
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"github.com/John-Robertt/yais/internal/domain"
)

// ProbeSize 读取本地图片文件的像素尺寸。
//
// 约束：
// - 只解析头部的尺寸字段（image.DecodeConfig），不解码像素数据
// - 纯本地操作：不涉及网络与凭证
// - 支持 JPEG/PNG/GIF/BMP/WebP；其余格式返回可解释的错误
func ProbeSize(path string) (domain.ImageSize, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ImageSize{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return domain.ImageSize{}, fmt.Errorf("探测图片尺寸失败（%s）：%w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return domain.ImageSize{}, errors.New("图片尺寸无效（format=" + format + "）")
	}
	return domain.ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}
