package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xpzouying/naverblog-mcp/browser"
	"github.com/xpzouying/naverblog-mcp/configs"
	"github.com/xpzouying/naverblog-mcp/naverblog"
)

func main() {
	var (
		headless      bool
		binPath       string // 浏览器二进制文件路径
		port          string
		stdioMode     bool // 是否使用 STDIO 模式
		logLevel      string
		selectorsFile string
	)
	flag.BoolVar(&headless, "headless", true, "是否无头模式")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径")
	flag.StringVar(&port, "port", ":18060", "端口")
	flag.BoolVar(&stdioMode, "stdio", false, "使用 STDIO 模式（用于 MCP 客户端）")
	flag.StringVar(&logLevel, "log-level", "info", "日志级别: debug, info, warn, error")
	flag.StringVar(&selectorsFile, "selectors", "", "选择器覆盖文件（YAML），页面改版时使用")
	flag.Parse()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	logrus.SetLevel(level)
	if stdioMode {
		// STDIO 模式下 stdout 用于协议通信
		logrus.SetOutput(os.Stderr)
	}

	if len(binPath) == 0 {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}

	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)
	browser.GetGlobalManager().SetConfig(headless, binPath)

	strategies := naverblog.DefaultStrategies()
	if selectorsFile != "" {
		if strategies, err = configs.LoadSelectors(selectorsFile); err != nil {
			logrus.Fatalf("failed to load selectors: %v", err)
		}
	}

	// 初始化服务
	naverBlogService := NewNaverBlogService(strategies)

	// 创建应用服务器
	appServer := NewAppServer(naverBlogService)
	defer browser.GetGlobalManager().CloseBrowser()

	if stdioMode {
		logrus.Info("启动 STDIO 模式 MCP 服务器")
		if err := appServer.StartSTDIO(); err != nil {
			logrus.Errorf("failed to run STDIO server: %v", err)
		}
		return
	}

	if err := appServer.Start(port); err != nil {
		logrus.Errorf("failed to run server: %v", err)
	}
}
