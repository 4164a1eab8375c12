package naverblog

import (
	"context"
	"errors"
	"sync"
)

// 测试用的假页面：按 Locator.String() 返回预先放好的元素

type fakeElement struct {
	name    string
	tag     string
	text    string
	attrs   map[string]string
	hidden  bool
	blocked bool
	checked bool

	clickErr error
	onClick  func()

	children map[string][]*fakeElement

	mu     sync.Mutex
	clicks int
	value  string
}

func newElement(name string) *fakeElement {
	return &fakeElement{name: name, tag: "a", attrs: map[string]string{}, children: map[string][]*fakeElement{}}
}

func (e *fakeElement) Find(_ context.Context, loc Locator) ([]Element, error) {
	return toElements(e.children[loc.String()]), nil
}

func (e *fakeElement) Visible(context.Context) bool      { return !e.hidden }
func (e *fakeElement) Interactable(context.Context) bool { return !e.hidden && !e.blocked }

func (e *fakeElement) Click(context.Context) error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.mu.Lock()
	e.clicks++
	e.mu.Unlock()
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) ScrollIntoView(context.Context) error { return nil }

func (e *fakeElement) Attr(_ context.Context, name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Text(context.Context) string  { return e.text }
func (e *fakeElement) Tag(context.Context) string   { return e.tag }
func (e *fakeElement) Checked(context.Context) bool { return e.checked }
func (e *fakeElement) Clear(context.Context) error  { e.value = ""; return nil }

func (e *fakeElement) Type(_ context.Context, s string) error {
	e.value += s
	return nil
}

func (e *fakeElement) clickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func toElements(list []*fakeElement) []Element {
	out := make([]Element, 0, len(list))
	for _, e := range list {
		out = append(out, e)
	}
	return out
}

type fakeTab struct {
	handle  string
	elems   map[string][]*fakeElement
	source  string
	escapes int
	closed  bool
}

func newTab(handle string) *fakeTab {
	return &fakeTab{handle: handle, elems: map[string][]*fakeElement{}}
}

// put 按测试策略表中的 CSS 放置元素
func (t *fakeTab) put(css string, els ...*fakeElement) *fakeTab {
	key := Locator{CSS: css}.String()
	t.elems[key] = append(t.elems[key], els...)
	return t
}

func (t *fakeTab) Find(_ context.Context, loc Locator) ([]Element, error) {
	return toElements(t.elems[loc.String()]), nil
}

func (t *fakeTab) Source(context.Context) (string, error)  { return t.source, nil }
func (t *fakeTab) ScrollTo(context.Context, float64) error { return nil }
func (t *fakeTab) PressEscape(context.Context) error       { t.escapes++; return nil }
func (t *fakeTab) Close() error                            { t.closed = true; return nil }

type fakeSurface struct {
	mu     sync.Mutex
	build  func(handle string) (*fakeTab, error)
	opened []*fakeTab
}

func (s *fakeSurface) Open(_ context.Context, handle string) (Tab, error) {
	tab, err := s.build(handle)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.opened = append(s.opened, tab)
	s.mu.Unlock()
	return tab, nil
}

var errOpen = errors.New("navigation failed")

// 测试策略表：每个角色一个简单 CSS
const (
	cssNeighborAdd   = "neighbor-add"
	cssMutual        = "mutual"
	cssPlain         = "plain"
	cssMessage       = "message"
	cssConfirm       = "confirm"
	cssLike          = "like"
	cssLikeReaction  = "like-reaction"
	cssPopup         = "popup"
	cssPopupOK       = "popup-ok"
	cssCommentOpen   = "comment-open"
	cssCommentList   = "comment-list"
	cssOwnComment    = "own-comment"
	cssCommentArea   = "comment-area"
	cssCommentEditor = "comment-editor"
	cssCommentSubmit = "comment-submit"
)

func testStrategies() StrategyTable {
	return StrategyTable{
		RoleNeighborAddButton:    {{CSS: cssNeighborAdd}},
		RoleMutualNeighborToggle: {{CSS: cssMutual}},
		RolePlainNeighborToggle:  {{CSS: cssPlain}},
		RoleNeighborMessageInput: {{CSS: cssMessage}},
		RoleConfirmButton:        {{CSS: cssConfirm}},
		RoleLikeToggle:           {{CSS: cssLike}},
		RoleLikeReactionOption:   {{CSS: cssLikeReaction}},
		RolePopupContainer:       {{CSS: cssPopup}},
		RoleDismissPopupButton:   {{CSS: cssPopupOK, Anchor: RolePopupContainer}},
		RoleCommentOpenButton:    {{CSS: cssCommentOpen}},
		RoleCommentList:          {{CSS: cssCommentList}},
		RoleOwnCommentControl:    {{CSS: cssOwnComment, Anchor: RoleCommentList}},
		RoleCommentInputArea:     {{CSS: cssCommentArea}},
		RoleCommentEditor:        {{CSS: cssCommentEditor}},
		RoleCommentSubmitButton:  {{CSS: cssCommentSubmit}},
	}
}

func noSettle(context.Context, int, int) {}

func testActor() actor {
	return actor{resolver: NewResolver(testStrategies()), settle: noSettle}
}

// blogTab 一个各控件齐全的文章页
type blogTab struct {
	*fakeTab
	add, mutual, plain, message, confirm *fakeElement
	like, editor, submit                 *fakeElement
}

func newBlogTab(handle string) *blogTab {
	b := &blogTab{
		fakeTab: newTab(handle),
		add:     newElement("add"),
		mutual:  newElement("mutual"),
		plain:   newElement("plain"),
		message: newElement("message"),
		confirm: newElement("confirm"),
		like:    newElement("like"),
		editor:  newElement("editor"),
		submit:  newElement("submit"),
	}
	b.source = "<html>서로이웃 신청이 완료되었습니다</html>"
	b.put(cssNeighborAdd, b.add).
		put(cssMutual, b.mutual).
		put(cssPlain, b.plain).
		put(cssMessage, b.message).
		put(cssConfirm, b.confirm).
		put(cssLike, b.like).
		put(cssCommentArea, newElement("area")).
		put(cssCommentEditor, b.editor).
		put(cssCommentSubmit, b.submit)
	return b
}
