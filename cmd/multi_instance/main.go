package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/naverblog-mcp/configs"
	"github.com/xpzouying/naverblog-mcp/cookies"
	"github.com/xpzouying/naverblog-mcp/multiaccount"
	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// 这个 CLI 程序从命令行直接执行互动运行（支持多账号），
// 复用服务层的运行逻辑，而不依赖 MCP 客户端。
func main() {
	var (
		runFile      string
		keyword      string
		accounts     string
		concurrency  int
		headless     bool
		binPath      string
		resetCookies bool
		logLevel     string
		loginTimeout = multiaccount.DefaultLoginTimeout
	)

	flag.StringVar(&runFile, "run", "", "运行配置文件（YAML/JSON），必填")
	flag.StringVar(&keyword, "keyword", "", "覆盖配置文件中的关键词")
	flag.StringVar(&accounts, "accounts", "default", "账号标识，逗号分隔，每个账号使用独立 cookies")
	flag.IntVar(&concurrency, "concurrency", 1, "同时运行的浏览器数量，<=0 表示全部同时运行")
	flag.BoolVar(&headless, "headless", false, "是否无头模式，默认 false（有界面，便于手动登录）")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径（可选，不传则使用 ROD_BROWSER_BIN 环境变量）")
	flag.BoolVar(&resetCookies, "reset-cookies", false, "启动前清理 cookies 文件并重新登录")
	flag.StringVar(&logLevel, "log-level", "info", "日志级别: debug, info, warn, error")
	flag.DurationVar(&loginTimeout, "login-timeout", loginTimeout, "未登录时等待手动登录的时长")
	flag.Parse()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	logrus.SetLevel(level)

	if runFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	rf, err := configs.LoadRunFile(runFile)
	if err != nil {
		logrus.Fatalf("failed to load run file: %v", err)
	}
	if keyword != "" {
		rf.Keyword = keyword
	}
	if rf.Keyword == "" {
		logrus.Fatal("缺少关键词：请在配置文件中设置 keyword 或使用 -keyword")
	}
	cfg, err := rf.ToRunConfig()
	if err != nil {
		logrus.Fatalf("invalid run config: %v", err)
	}
	strategies, err := rf.Strategies()
	if err != nil {
		logrus.Fatalf("failed to load selectors: %v", err)
	}

	if resetCookies {
		if err := cookies.ResetCookiesFiles(); err != nil {
			logrus.Fatalf("failed to reset cookies: %v", err)
		}
		logrus.Infof("cookies 已清理（含账号派生文件），将重新登录")
	}

	if binPath == "" {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}
	if headless {
		logrus.Warn("当前以无头模式运行，首次登录时无法手动操作，建议第一次使用时 headless=false")
	}
	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	// Ctrl-C 先请求停止，让当前目标正常收尾；再按一次直接取消
	control := naverblog.NewWorkControl()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logrus.Warn("收到中断信号，当前目标处理完后停止（再按一次强制退出）")
		control.Stop()
		<-sigCh
		cancel()
	}()

	ids := splitAccounts(accounts)
	logrus.Infof("开始运行：关键词=%s，账号数=%d，并发=%d，动作=%v", rf.Keyword, len(ids), concurrency, cfg.Actions)

	results, err := multiaccount.Run(ctx, multiaccount.Options{
		Accounts:     ids,
		Concurrency:  concurrency,
		Keyword:      rf.Keyword,
		Config:       cfg,
		Strategies:   strategies,
		Control:      control,
		LoginTimeout: loginTimeout,
		OnProgress: func(accountID string, s naverblog.RunSummary) {
			logrus.WithField("account", accountID).
				Infof("进度 %d/%d：成功 %d，失败 %d", s.Attempted, s.Total, s.Succeeded, s.Failed)
		},
	})

	printResults(results)
	if err != nil {
		logrus.Fatalf("运行失败: %v", err)
	}
}

func splitAccounts(s string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

var tableHeader = []string{"账号", "目标", "成功", "失败", "跳过", "互邻", "邻居", "点赞", "评论", "状态"}

func printResults(results []*multiaccount.AccountResult) {
	rows := [][]string{tableHeader}
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Summary == nil {
			rows = append(rows, []string{res.AccountID, "-", "-", "-", "-", "-", "-", "-", "-", "失败: " + res.Error})
			continue
		}
		s := res.Summary
		state := "完成"
		if s.Stopped {
			state = "已停止"
		}
		rows = append(rows, []string{
			res.AccountID,
			fmt.Sprintf("%d/%d", s.Attempted, s.Total),
			fmt.Sprint(s.Succeeded),
			fmt.Sprint(s.Failed),
			fmt.Sprint(s.Skipped),
			fmt.Sprint(s.MutualCount),
			fmt.Sprint(s.NeighborCount),
			fmt.Sprint(s.LikeCount),
			fmt.Sprint(s.CommentCount),
			state,
		})
	}
	fmt.Print(formatTable(rows))
}

// formatTable 按显示宽度对齐，账号名和状态可能包含中日韩字符
func formatTable(rows [][]string) string {
	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
