package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/John-Robertt/yais/internal/infra/fsx"
)

// Store 提供 <root>/<site>/ 下的会话凭证文件读写。
//
// 约束：
// - Root 为空表示禁用缓存（Enabled()=false），所有读都 miss
// - 凭证按站点名划分子目录，两个站点的凭证永不碰撞
// - 文件内容就是裸凭证字符串，无信封格式、无过期时间戳
//   （有效性只能通过使用来发现）
type Store struct {
	Root string
}

func New(root string) Store {
	root = strings.TrimSpace(root)
	if root != "" {
		root = filepath.Clean(root)
	}
	return Store{Root: root}
}

func (s Store) Enabled() bool { return s.Root != "" }

const tokenFileName = "guest_token"

var siteNameRE = regexp.MustCompile(`^[a-z0-9_]+$`)

// ForSite 返回按站点隔离的凭证视图。
// 站点名就是 Strategy.Name()（枚举值）；这里只做最小校验以避免路径穿越。
func (s Store) ForSite(site string) (SiteTokens, error) {
	site = strings.ToLower(strings.TrimSpace(site))
	if site == "" {
		return SiteTokens{}, fmt.Errorf("site 不能为空")
	}
	if !siteNameRE.MatchString(site) {
		return SiteTokens{}, fmt.Errorf("非法 site：%q", site)
	}
	if !s.Enabled() {
		return SiteTokens{}, nil
	}
	return SiteTokens{dir: filepath.Join(s.Root, site)}, nil
}

// SiteTokens 是单个站点的凭证缓存。零值表示禁用（读 miss、写丢弃）。
type SiteTokens struct {
	dir string
}

// Path 返回凭证文件的绝对路径（禁用时为空串）。
func (t SiteTokens) Path() string {
	if t.dir == "" {
		return ""
	}
	return filepath.Join(t.dir, tokenFileName)
}

// Read 读取缓存的凭证。
// best-effort：文件缺失、不可读或内容为空都返回 ok=false，绝不报错——
// 上层据此走“重新获取”路径，而不是把磁盘问题当成致命错误。
func (t SiteTokens) Read() (string, bool) {
	if t.dir == "" {
		return "", false
	}
	b, err := os.ReadFile(filepath.Join(t.dir, tokenFileName))
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", false
	}
	return v, true
}

// Write 覆盖写入凭证（原子替换；目录按需创建）。
// 并发进程可能竞争写同一文件：后写者胜，凭证可幂等重取，可接受。
func (t SiteTokens) Write(value string) error {
	if t.dir == "" {
		return nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("凭证不能为空")
	}
	return fsx.WriteFileAtomicReplace(t.dir, tokenFileName, []byte(value))
}
