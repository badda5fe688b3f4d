package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

const (
	FileStatusSaved  = "saved"
	FileStatusFailed = "failed"
)

const (
	ErrCodeUnsupportedURL = "unsupported_url"
	ErrCodeIDNotFound     = "id_not_found"
	ErrCodeFetchFailed    = "fetch_failed"
	ErrCodeParseFailed    = "parse_failed"
	ErrCodeDownloadFailed = "download_failed"
	ErrCodeProbeFailed    = "probe_failed"
	ErrCodeConfigInvalid  = "config_invalid"
	ErrCodeIOFailed       = "io_failed"
)

// RunReport 是对外稳定输出（--json / stdout）的结构。
// 每个输入 URL 形成一条 item；单条失败不影响其他条目。
type RunReport struct {
	Dest string `json:"dest"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Images    int `json:"images"`
}

type ItemResult struct {
	Origin string `json:"origin"`
	Site   string `json:"site"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Images []ImageResult `json:"images"`
}

type ImageResult struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Status   string `json:"status"`
	ErrorMsg string `json:"error_msg,omitempty"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 origin 字典序；origin=="" 的条目排在最后
// 3) summary 由 items 计算得出（images 只统计成功落盘的张数）
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].Origin
		b := r.Items[j].Origin
		if a == "" && b == "" {
			return false
		}
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusProcessed:
			s.Processed++
		case StatusFailed:
			s.Failed++
		}
		for _, img := range it.Images {
			if img.Status == FileStatusSaved {
				s.Images++
			}
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
