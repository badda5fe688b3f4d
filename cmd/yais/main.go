package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/yais/internal/app/run"
	"github.com/John-Robertt/yais/internal/config"
	"github.com/John-Robertt/yais/internal/domain"
	"github.com/John-Robertt/yais/internal/site"
	"github.com/John-Robertt/yais/internal/site/moebooru"
	"github.com/John-Robertt/yais/internal/site/pixiv"
	"github.com/John-Robertt/yais/internal/site/twitter"
	"github.com/John-Robertt/yais/internal/site/zerochan"
)

// version 由构建时 -ldflags 注入。
var version = "dev"

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if isHelp(a) {
			printUsage()
			return
		}
		if a == "--version" {
			fmt.Fprintf(os.Stdout, "yais %s\n", version)
			return
		}
	}

	if code := runCmd(args); code != 0 {
		os.Exit(code)
	}
}

func runCmd(args []string) int {
	ca, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage()
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if ca.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, ca.CLI)
	if err != nil {
		emitReport(reportForConfigError(err), ca.JSON)
		return 1
	}

	reg, e := site.NewRegistry(
		twitter.Strategy{APIBaseURL: eff.TwitterAPIBaseURL},
		pixiv.Strategy{BaseURL: eff.PixivBaseURL},
		moebooru.Strategy{},
		zerochan.Strategy{},
	)
	if e != nil {
		fmt.Fprintf(os.Stderr, "初始化站点注册表失败：%v\n", e)
		return 1
	}

	obs := newLogObserver(logger)
	rr := run.ExecuteWithObserver(context.Background(), eff, reg, ca.URLs, obs)

	emitReport(rr, ca.JSON)
	if rr.Summary.Failed == 0 {
		return 0
	}
	return 1
}

type cliArgs struct {
	CLI     config.CLIArgs
	URLs    []string
	Verbose bool
	JSON    bool
}

func parseArgs(args []string) (cliArgs, error) {
	ca := cliArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-d" || a == "--dest":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("%s 需要一个值", a)
			}
			i++
			ca.CLI.Dest = args[i]
			ca.CLI.DestSet = true
		case strings.HasPrefix(a, "--dest="):
			ca.CLI.Dest = strings.TrimPrefix(a, "--dest=")
			ca.CLI.DestSet = true
		case a == "--cache-dir":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--cache-dir 需要一个值")
			}
			i++
			ca.CLI.CacheDir = args[i]
			ca.CLI.CacheDirSet = true
		case strings.HasPrefix(a, "--cache-dir="):
			ca.CLI.CacheDir = strings.TrimPrefix(a, "--cache-dir=")
			ca.CLI.CacheDirSet = true
		case a == "--config":
			if i+1 >= len(args) {
				return cliArgs{}, fmt.Errorf("--config 需要一个值")
			}
			i++
			ca.CLI.ConfigPath = args[i]
		case strings.HasPrefix(a, "--config="):
			ca.CLI.ConfigPath = strings.TrimPrefix(a, "--config=")
		case a == "-v" || a == "--verbose":
			ca.Verbose = true
		case a == "--json":
			ca.JSON = true
		case strings.HasPrefix(a, "-"):
			return cliArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			ca.URLs = append(ca.URLs, a)
		}
	}

	if len(ca.URLs) == 0 {
		return cliArgs{}, fmt.Errorf("至少需要一个 URL")
	}
	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  yais [选项] <url>...

选项：
  -d, --dest DIR    下载目录（默认当前目录；可用 yais.json 的 dest 配置）
  --cache-dir DIR   凭证缓存目录（未指定则禁用缓存）
  --config FILE     指定配置文件（默认尝试读取 ./yais.json，可缺失）
  --json            在 stdout 输出完整 RunReport JSON
  -v, --verbose     输出调试日志
  --version         显示版本
  -h, --help        显示帮助

支持的站点：twitter / pixiv / konachan / yande.re / zerochan
`)
}

func emitReport(rr domain.RunReport, asJSON bool) {
	if asJSON {
		// --json：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
		enc := json.NewEncoder(os.Stdout)
		_ = enc.Encode(rr)
	}
	fmt.Fprintf(os.Stderr, "完成：processed=%d failed=%d images=%d\n",
		rr.Summary.Processed, rr.Summary.Failed, rr.Summary.Images,
	)
	for _, it := range rr.Items {
		if it.Status != domain.StatusFailed {
			continue
		}
		key := it.Origin
		if key == "" {
			key = "<config>"
		}
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", key, it.ErrorCode, it.ErrorMsg)
	}
}

func reportForConfigError(err error) domain.RunReport {
	rr := domain.RunReport{
		Items: []domain.ItemResult{{
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
			Images:    []domain.ImageResult{},
		}},
	}
	rr.Finalize()
	return rr
}
