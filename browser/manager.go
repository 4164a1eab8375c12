package browser

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"
)

// Manager 浏览器实例管理器，确保同一时间只有一个操作在使用浏览器
//
// naver 的会话绑定在 cookies 上，同一账号并发开多个标签页容易触发风控，
// 所以登录检查和运行任务都要排队。
type Manager struct {
	mu         sync.Mutex
	cond       *sync.Cond // 等待浏览器释放
	browser    *headless_browser.Browser
	headless   bool
	binPath    string
	cookiePath string
	inUse      bool

	// newBrowser 测试时替换
	newBrowser func(headless bool, options ...Option) *headless_browser.Browser
}

var (
	globalManager     *Manager
	globalManagerOnce sync.Once
)

func NewManager() *Manager {
	m := &Manager{newBrowser: NewBrowser}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// GetGlobalManager 获取全局浏览器管理器（单例）
func GetGlobalManager() *Manager {
	globalManagerOnce.Do(func() {
		globalManager = NewManager()
	})
	return globalManager
}

// SetConfig 设置浏览器配置，下一次创建实例时生效
func (m *Manager) SetConfig(headless bool, binPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headless = headless
	m.binPath = binPath
}

// SetCookiesPath 指定 cookies 文件，为空时使用默认路径
func (m *Manager) SetCookiesPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cookiePath = path
}

// AcquireBrowser 获取浏览器实例（会阻塞直到浏览器可用）
// 返回浏览器实例和一个 release 函数，使用完毕后必须调用 release 函数释放浏览器
func (m *Manager) AcquireBrowser() (*headless_browser.Browser, func()) {
	m.mu.Lock()

	for m.inUse {
		logrus.Info("⏳ 浏览器正在使用中，等待释放...")
		m.cond.Wait()
		logrus.Info("✓ 浏览器已释放，继续执行")
	}

	if m.browser == nil {
		logrus.Info("创建新的浏览器实例...")
		opts := []Option{WithBinPath(m.binPath)}
		if m.cookiePath != "" {
			opts = append(opts, WithCookiesPath(m.cookiePath))
		}
		m.browser = m.newBrowser(m.headless, opts...)
		logrus.Info("✓ 浏览器实例创建成功")
	}

	m.inUse = true
	browser := m.browser

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.inUse = false
			logrus.Debug("浏览器实例已释放，可供其他操作使用")
			m.cond.Signal()
		})
	}

	m.mu.Unlock()
	return browser, release
}

// CloseBrowser 关闭并清理浏览器实例
func (m *Manager) CloseBrowser() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		logrus.Info("关闭浏览器实例...")
		m.browser.Close()
		m.browser = nil
		m.inUse = false
		m.cond.Broadcast()
	}
}

// NewPageWithRelease 获取一个新的页面，并返回页面和释放函数
func (m *Manager) NewPageWithRelease() (*rod.Page, func()) {
	browser, releaseBrowser := m.AcquireBrowser()

	page := NewPageSource(browser).NewPage()

	release := func() {
		if page != nil {
			_ = page.Close()
		}
		releaseBrowser()
	}

	return page, release
}
