package naverblog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNotFound 所有策略都没有找到可交互的元素
var ErrNotFound = errors.New("element not found")

// maxAnchorDepth 锚点角色嵌套的最大深度
const maxAnchorDepth = 3

// Role 页面控件的抽象名称，与具体标记无关
type Role string

const (
	RoleNeighborAddButton    Role = "neighbor_add_button"
	RoleMutualNeighborToggle Role = "mutual_neighbor_toggle"
	RolePlainNeighborToggle  Role = "plain_neighbor_toggle"
	RoleNeighborMessageInput Role = "neighbor_message_input"
	RoleConfirmButton        Role = "confirm_button"
	RoleLikeToggle           Role = "like_toggle"
	RoleLikeReactionOption   Role = "like_reaction_option"
	RolePopupContainer       Role = "popup_container"
	RoleDismissPopupButton   Role = "dismiss_popup_button"
	RoleCommentOpenButton    Role = "comment_open_button"
	RoleCommentList          Role = "comment_list"
	RoleOwnCommentControl    Role = "own_comment_control"
	RoleCommentInputArea     Role = "comment_input_area"
	RoleCommentEditor        Role = "comment_editor"
	RoleCommentSubmitButton  Role = "comment_submit_button"
)

// Roles 全部角色，顺序固定
var Roles = []Role{
	RoleNeighborAddButton,
	RoleMutualNeighborToggle,
	RolePlainNeighborToggle,
	RoleNeighborMessageInput,
	RoleConfirmButton,
	RoleLikeToggle,
	RoleLikeReactionOption,
	RolePopupContainer,
	RoleDismissPopupButton,
	RoleCommentOpenButton,
	RoleCommentList,
	RoleOwnCommentControl,
	RoleCommentInputArea,
	RoleCommentEditor,
	RoleCommentSubmitButton,
}

// Strategy 一种定位候选元素的方式
type Strategy struct {
	Name string `yaml:"name" json:"name"`
	// CSS 与 XPath 二选一，都为空时无效
	CSS   string `yaml:"css,omitempty" json:"css,omitempty"`
	XPath string `yaml:"xpath,omitempty" json:"xpath,omitempty"`
	// Keywords 候选元素的可见文本或 Attrs 中必须包含其中之一
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	// Attrs 匹配 Keywords 时检查的属性，默认 title、aria-label
	Attrs []string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	// Exclude 命中任一即排除
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	// Closest 命中后沿祖先向上找到真正可点击的元素，XPath 轴步，例如 "a" 或 "*[self::a or self::button]"
	Closest string `yaml:"closest,omitempty" json:"closest,omitempty"`
	// Anchor 先解析该角色，再在其内部查找
	Anchor Role `yaml:"anchor,omitempty" json:"anchor,omitempty"`
}

func (s Strategy) locator() (Locator, bool) {
	switch {
	case s.XPath != "":
		return Locator{XPath: s.XPath}, true
	case s.CSS != "":
		return Locator{CSS: s.CSS}, true
	}
	return Locator{}, false
}

func (s Strategy) label() string {
	if s.Name != "" {
		return s.Name
	}
	loc, _ := s.locator()
	return loc.String()
}

// StrategyTable 每个角色对应的有序策略列表
type StrategyTable map[Role][]Strategy

// Merge 用 override 中出现的角色整体替换当前表中的策略
func (t StrategyTable) Merge(override StrategyTable) StrategyTable {
	out := make(StrategyTable, len(t)+len(override))
	for role, list := range t {
		out[role] = list
	}
	for role, list := range override {
		out[role] = list
	}
	return out
}

// Resolver 按策略链把角色解析为具体元素
type Resolver struct {
	table StrategyTable
}

func NewResolver(table StrategyTable) *Resolver {
	if table == nil {
		table = DefaultStrategies()
	}
	return &Resolver{table: table}
}

// Resolve 依次尝试 role 的策略，返回第一个可见且可交互的候选元素。
// 只做查询，不滚动也不点击。
func (r *Resolver) Resolve(ctx context.Context, scope Scope, role Role) (Element, error) {
	return r.resolve(ctx, scope, role, 0)
}

func (r *Resolver) resolve(ctx context.Context, scope Scope, role Role, depth int) (Element, error) {
	strategies, ok := r.table[role]
	if !ok || len(strategies) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "角色 %s 没有配置策略", role)
	}

	log := logrus.WithField("role", role)
	for _, s := range strategies {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		searchScope := scope
		if s.Anchor != "" {
			if depth >= maxAnchorDepth {
				log.Warnf("锚点嵌套过深，跳过策略 %s", s.label())
				continue
			}
			anchor, err := r.resolve(ctx, scope, s.Anchor, depth+1)
			if err != nil {
				log.Debugf("策略 %s 的锚点 %s 未找到", s.label(), s.Anchor)
				continue
			}
			searchScope = anchor
		}

		if el := r.firstMatch(ctx, searchScope, s); el != nil {
			log.Debugf("通过策略 %s 找到元素", s.label())
			return el, nil
		}
	}

	return nil, errors.Wrapf(ErrNotFound, "角色 %s", role)
}

// Exists 角色是否能被解析
func (r *Resolver) Exists(ctx context.Context, scope Scope, role Role) bool {
	_, err := r.Resolve(ctx, scope, role)
	return err == nil
}

func (r *Resolver) firstMatch(ctx context.Context, scope Scope, s Strategy) Element {
	loc, ok := s.locator()
	if !ok {
		return nil
	}
	candidates, err := scope.Find(ctx, loc)
	if err != nil {
		logrus.Debugf("策略 %s 查询失败: %v", s.label(), err)
		return nil
	}

	for _, c := range candidates {
		if !matchesKeywords(ctx, c, s) {
			continue
		}
		if s.Closest != "" {
			up, err := c.Find(ctx, Locator{XPath: "./ancestor-or-self::" + s.Closest + "[1]"})
			if err != nil || len(up) == 0 {
				continue
			}
			c = up[0]
		}
		if c.Interactable(ctx) {
			return c
		}
	}
	return nil
}

var defaultKeywordAttrs = []string{"title", "aria-label"}

// matchesKeywords 文本与属性的关键字过滤，没有配置关键字时直接通过
func matchesKeywords(ctx context.Context, el Element, s Strategy) bool {
	if len(s.Keywords) == 0 && len(s.Exclude) == 0 {
		return true
	}

	attrs := s.Attrs
	if len(attrs) == 0 {
		attrs = defaultKeywordAttrs
	}
	haystack := []string{el.Text(ctx)}
	for _, name := range attrs {
		if v, ok := el.Attr(ctx, name); ok {
			haystack = append(haystack, v)
		}
	}
	joined := strings.ToLower(strings.Join(haystack, " "))

	for _, ex := range s.Exclude {
		if strings.Contains(joined, strings.ToLower(ex)) {
			return false
		}
	}
	if len(s.Keywords) == 0 {
		return true
	}
	for _, kw := range s.Keywords {
		if strings.Contains(joined, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
