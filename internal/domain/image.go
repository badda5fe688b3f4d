package domain

// Image 是一次解析得到的可下载图片资源描述（最小稳定三元组）。
//
// 约束：
// - URL 是直接可抓取的资源地址（可能带原图后缀等服务端要求的修饰）
// - Filename 是本地落盘名：资源 URL path 的 basename，已做百分号解码
// - Origin 必须逐字保留触发本次解析的输入 URL（追溯 + referer 需要）
// - 同一次解析产出的所有 Image 的 Origin 相同
type Image struct {
	URL      string
	Filename string
	Origin   string
}

// ImageSize 是已下载文件的像素尺寸（由 imgx 探测，不经过网络）。
type ImageSize struct {
	Width  int
	Height int
}
