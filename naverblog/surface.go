package naverblog

import "context"

// Locator 一次元素查询，CSS 与 XPath 二选一
type Locator struct {
	CSS   string
	XPath string
}

func (l Locator) String() string {
	if l.XPath != "" {
		return "xpath:" + l.XPath
	}
	return "css:" + l.CSS
}

// Scope 可以在其中查找元素的范围（整个标签页或某个元素内部）
type Scope interface {
	// Find 立即返回当前匹配的元素，不等待
	Find(ctx context.Context, loc Locator) ([]Element, error)
}

// Element 页面上的一个元素
type Element interface {
	Scope

	Visible(ctx context.Context) bool
	// Interactable 元素可见且未被遮挡，可以接收点击
	Interactable(ctx context.Context) bool
	Click(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error

	// Attr 读取属性，属性不存在时第二个返回值为 false
	Attr(ctx context.Context, name string) (string, bool)
	Text(ctx context.Context) string
	// Tag 小写标签名
	Tag(ctx context.Context) string
	// Checked radio/checkbox 是否选中
	Checked(ctx context.Context) bool

	// Clear 清空输入框或 contenteditable 区域
	Clear(ctx context.Context) error
	Type(ctx context.Context, text string) error
}

// Tab 为一个目标打开的浏览上下文
type Tab interface {
	Scope

	// Source 当前文档的 HTML
	Source(ctx context.Context) (string, error)
	// ScrollTo 滚动到页面高度的 fraction 处（0 顶部，1 底部）
	ScrollTo(ctx context.Context, fraction float64) error
	PressEscape(ctx context.Context) error
	Close() error
}

// Surface 浏览器会话：一次只打开一个 Tab
type Surface interface {
	Open(ctx context.Context, handle string) (Tab, error)
}
