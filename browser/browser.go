package browser

import (
	"encoding/json"
	"runtime"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"
	"github.com/xpzouying/naverblog-mcp/cookies"
)

type browserConfig struct {
	binPath    string
	cookiePath string
}

type Option func(*browserConfig)

func WithBinPath(binPath string) Option {
	return func(c *browserConfig) {
		c.binPath = binPath
	}
}

// WithCookiesPath 指定新浏览器实例启动时要使用的 cookies 文件路径。
func WithCookiesPath(path string) Option {
	return func(c *browserConfig) {
		c.cookiePath = path
	}
}

func NewBrowser(headless bool, options ...Option) *headless_browser.Browser {
	cfg := &browserConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	opts := []headless_browser.Option{
		headless_browser.WithHeadless(headless),
	}
	if cfg.binPath != "" {
		opts = append(opts, headless_browser.WithChromeBinPath(cfg.binPath))
	}

	// 加载 cookies
	cookiePath := cfg.cookiePath
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}
	cookieLoader := cookies.NewLoadCookie(cookiePath)

	if data, err := cookieLoader.LoadCookies(); err == nil {
		opts = append(opts, headless_browser.WithCookies(string(data)))
		logrus.WithField("cookies_path", cookiePath).Debug("loaded cookies from file successfully")
	} else {
		logrus.WithField("cookies_path", cookiePath).Warnf("failed to load cookies: %v", err)
	}

	return headless_browser.New(opts...)
}

// ConfigurePage 配置页面：统一视口大小，并在 Windows 下修正 User-Agent
func ConfigurePage(page *rod.Page) {
	// 博客 PC 版在窄视口下会切换布局，按钮位置会变
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            900,
		DeviceScaleFactor: 1,
	}); err != nil {
		logrus.Warnf("failed to set viewport: %v", err)
	}

	// headless_browser 内部使用了 stealth 库，默认会将 UA 伪装成 Mac Chrome
	if runtime.GOOS != "windows" {
		return
	}

	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// 页面已经关闭时会失败，忽略
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      ua,
		Platform:       "Windows",
		AcceptLanguage: "ko-KR,ko;q=0.9",
	})

	_, err := page.EvalOnNewDocument(`
		Object.defineProperty(navigator, 'platform', {
			get: () => 'Win32'
		});
		Object.defineProperty(navigator, 'userAgent', {
			get: () => '` + ua + `'
		});
	`)
	if err != nil {
		logrus.Warnf("failed to set user agent script: %v", err)
	}

	logrus.Debug("已修正 Windows 环境下的 User-Agent 设置")
}

// PageSource 为 naverblog.RodSurface 提供新页面，每个页面都经过 ConfigurePage
type PageSource struct {
	browser *headless_browser.Browser
}

func NewPageSource(b *headless_browser.Browser) *PageSource {
	return &PageSource{browser: b}
}

func (s *PageSource) NewPage() *rod.Page {
	page := s.browser.NewPage()
	ConfigurePage(page)
	return page
}

// SavePageCookiesToPath 将当前浏览器的 cookies 保存到指定文件路径
func SavePageCookiesToPath(page *rod.Page, cookiePath string) error {
	cks, err := page.Browser().GetCookies()
	if err != nil {
		return errors.Wrap(err, "failed to get browser cookies")
	}

	data, err := json.Marshal(cks)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cookies")
	}

	return cookies.NewLoadCookie(cookiePath).SaveCookies(data)
}
