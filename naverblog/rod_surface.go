package naverblog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	navigateTimeout = 60 * time.Second
	// 博客桌面版把正文放在 iframe#mainFrame 中
	mainFrameSelector = "iframe#mainFrame"
)

// PageFactory 创建新页面，headless_browser.Browser 满足该接口
type PageFactory interface {
	NewPage() *rod.Page
}

// RodSurface 基于 go-rod 的 Surface 实现
type RodSurface struct {
	pages PageFactory
}

func NewRodSurface(pages PageFactory) *RodSurface {
	return &RodSurface{pages: pages}
}

// Open 新建标签页并打开目标文章
func (s *RodSurface) Open(ctx context.Context, handle string) (tab Tab, err error) {
	if handle == "" {
		return nil, errors.New("目标地址为空")
	}

	page := s.pages.NewPage()
	if page == nil {
		return nil, errors.New("创建页面失败")
	}
	// NewPage 内部使用 Must 系列方法，可能 panic
	defer func() {
		if r := recover(); r != nil {
			_ = page.Close()
			tab, err = nil, fmt.Errorf("打开页面 panic: %v", r)
		}
	}()

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()
	navPage := page.Context(navCtx)

	if err := navPage.Navigate(handle); err != nil {
		_ = page.Close()
		return nil, errors.Wrapf(err, "导航到 %s 失败", handle)
	}
	if err := navPage.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, errors.Wrapf(err, "等待 %s 加载失败", handle)
	}
	if err := navPage.WaitDOMStable(time.Second, 0); err != nil {
		logrus.WithField("target", handle).Debugf("等待 DOM 稳定失败: %v", err)
	}

	doc := page
	if has, frameEl, _ := page.Has(mainFrameSelector); has {
		if frame, err := frameEl.Frame(); err == nil {
			logrus.WithField("target", handle).Debug("检测到 mainFrame，切换到正文 iframe")
			doc = frame
		}
	}

	return &rodTab{page: page, doc: doc}, nil
}

type rodTab struct {
	// page 外层页面，关闭时使用
	page *rod.Page
	// doc 实际查询的文档（可能是 iframe）
	doc *rod.Page
}

func (t *rodTab) Find(ctx context.Context, loc Locator) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	p := t.doc.Context(ctx)
	if loc.XPath != "" {
		els, err = p.ElementsX(loc.XPath)
	} else {
		els, err = p.Elements(loc.CSS)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "查询 %s 失败", loc)
	}
	return wrapElements(els), nil
}

func (t *rodTab) Source(ctx context.Context) (string, error) {
	html, err := t.doc.Context(ctx).HTML()
	if err != nil {
		return "", errors.Wrap(err, "读取页面源码失败")
	}
	return html, nil
}

func (t *rodTab) ScrollTo(ctx context.Context, fraction float64) error {
	_, err := t.doc.Context(ctx).Eval(`(f) => window.scrollTo(0, document.body.scrollHeight * f)`, fraction)
	return errors.Wrap(err, "滚动页面失败")
}

func (t *rodTab) PressEscape(ctx context.Context) error {
	return errors.Wrap(t.doc.Context(ctx).KeyActions().Press(input.Escape).Do(), "按下 ESC 失败")
}

func (t *rodTab) Close() error {
	if t.page == nil {
		return nil
	}
	return t.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func wrapElements(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (e *rodElement) Find(ctx context.Context, loc Locator) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	el := e.el.Context(ctx)
	if loc.XPath != "" {
		els, err = el.ElementsX(loc.XPath)
	} else {
		els, err = el.Elements(loc.CSS)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "查询 %s 失败", loc)
	}
	return wrapElements(els), nil
}

func (e *rodElement) Visible(ctx context.Context) bool {
	visible, err := e.el.Context(ctx).Visible()
	return err == nil && visible
}

func (e *rodElement) Interactable(ctx context.Context) bool {
	if !e.Visible(ctx) {
		return false
	}
	_, err := e.el.Context(ctx).Interactable()
	return err == nil
}

func (e *rodElement) Click(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		// 被遮挡时退回到 JS click
		if _, jsErr := el.Eval(`() => this.click()`); jsErr != nil {
			return errors.Wrap(err, "点击失败")
		}
	}
	return nil
}

func (e *rodElement) ScrollIntoView(ctx context.Context) error {
	return errors.Wrap(e.el.Context(ctx).ScrollIntoView(), "滚动到元素失败")
}

func (e *rodElement) Attr(ctx context.Context, name string) (string, bool) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *rodElement) Text(ctx context.Context) string {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *rodElement) Tag(ctx context.Context) string {
	res, err := e.el.Context(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (e *rodElement) Checked(ctx context.Context) bool {
	res, err := e.el.Context(ctx).Eval(`() => !!this.checked`)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

func (e *rodElement) Clear(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => {
		if ('value' in this) { this.value = ''; } else { this.textContent = ''; }
		this.dispatchEvent(new Event('input', { bubbles: true }));
	}`)
	return errors.Wrap(err, "清空输入框失败")
}

func (e *rodElement) Type(ctx context.Context, text string) error {
	return errors.Wrap(e.el.Context(ctx).Input(text), "输入文本失败")
}
