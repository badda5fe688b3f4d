package site

import (
	"fmt"
	"strings"
)

// Registry 是 (前缀, Strategy) 的只读注册表。
//
// 匹配策略：按注册顺序做字面 starts-with 匹配，第一个命中的前缀获胜。
// 前缀不要求互斥（例如 "https://konachan.net/" 与 "https://konachan.net/post/"
// 可以共存）；平局的裁决就是注册顺序，该行为有测试固定。
// 条目数量极小，线性扫即可，不做花哨的数据结构。
type Registry struct {
	entries []registryEntry
}

type registryEntry struct {
	prefix   string
	strategy Strategy
}

// NewRegistry 按给定顺序注册各策略的全部前缀，构造只读注册表。
// 注册表在进程初始化时显式构造一次，之后只读；测试可以并存多个实例。
func NewRegistry(strategies ...Strategy) (Registry, error) {
	entries := make([]registryEntry, 0, len(strategies)*2)
	seen := make(map[string]string, len(strategies)*2)
	for _, s := range strategies {
		if s == nil {
			return Registry{}, fmt.Errorf("strategy 不能为空")
		}
		name := strings.ToLower(strings.TrimSpace(s.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("strategy.Name 不能为空")
		}
		prefixes := s.Prefixes()
		if len(prefixes) == 0 {
			return Registry{}, fmt.Errorf("strategy %q 未声明任何前缀", name)
		}
		for _, p := range prefixes {
			p = strings.TrimSpace(p)
			if p == "" {
				return Registry{}, fmt.Errorf("strategy %q 含空前缀", name)
			}
			if owner, ok := seen[p]; ok {
				return Registry{}, fmt.Errorf("前缀 %q 重复注册（%s 与 %s）", p, owner, name)
			}
			seen[p] = name
			entries = append(entries, registryEntry{prefix: p, strategy: s})
		}
	}
	return Registry{entries: entries}, nil
}

// Resolve 返回第一个前缀命中 pageURL 的策略；无命中返回 *UnsupportedURLError。
func (r Registry) Resolve(pageURL string) (Strategy, error) {
	for _, e := range r.entries {
		if strings.HasPrefix(pageURL, e.prefix) {
			return e.strategy, nil
		}
	}
	return nil, &UnsupportedURLError{URL: pageURL}
}
