package naverblog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// NeighborExecutor 서로이웃（互邻）/ 이웃（普通邻居）申请
//
// Idle → OpenRequestPanel → SelectRequestType → [ComposeMessage] → Confirm → Verify
type NeighborExecutor struct {
	actor
	markers []string
}

// Mutual 申请互邻。找不到互邻选项时返回 Failed{MutualUnavailable}，
// 由调用方决定是否在已打开的面板上降级为普通邻居。
// 一旦点击了确认，验证失败也不会再降级，避免重复提交。
func (x *NeighborExecutor) Mutual(ctx context.Context, tab Tab, message string, hasMessage bool) ActionOutcome {
	if out, ok := x.openPanel(ctx, tab, ActionMutualNeighbor); !ok {
		return out
	}

	toggle, err := x.resolver.Resolve(ctx, tab, RoleMutualNeighborToggle)
	if err != nil {
		logrus.Info("未找到互邻选项")
		return failed(ActionMutualNeighbor, ReasonMutualUnavailable, err)
	}
	if err := x.click(ctx, toggle); err != nil {
		logrus.Warnf("点击互邻选项失败: %v", err)
		return failed(ActionMutualNeighbor, ReasonMutualUnavailable, err)
	}
	x.settle(ctx, 1000, 2000)
	x.ensureRadioChecked(ctx, tab, toggle)

	if hasMessage {
		x.composeMessage(ctx, tab, message)
	}

	if out, ok := x.confirm(ctx, tab, ActionMutualNeighbor); !ok {
		return out
	}

	if !x.verify(ctx, tab) {
		logrus.Warn("确认后未检测到互邻申请成功的提示")
		return failed(ActionMutualNeighbor, ReasonVerificationFailed, nil)
	}

	logrus.Info("互邻申请成功")
	return succeeded(ActionMutualNeighbor)
}

// Plain 普通邻居。panelOpen 为 true 表示从互邻降级，申请面板已经打开。
// 普通邻居没有成功提示，确认即视为成功。
func (x *NeighborExecutor) Plain(ctx context.Context, tab Tab, panelOpen bool) ActionOutcome {
	if !panelOpen {
		if out, ok := x.openPanel(ctx, tab, ActionPlainNeighbor); !ok {
			return out
		}
	}

	// 面板默认就是普通邻居，选项找不到不算失败
	if toggle, err := x.resolver.Resolve(ctx, tab, RolePlainNeighborToggle); err == nil {
		if err := x.click(ctx, toggle); err != nil {
			logrus.Debugf("点击普通邻居选项失败: %v", err)
		} else {
			x.ensureRadioChecked(ctx, tab, toggle)
		}
		x.settle(ctx, 500, 1000)
	}

	if out, ok := x.confirm(ctx, tab, ActionPlainNeighbor); !ok {
		return out
	}

	logrus.Info("普通邻居添加成功")
	return succeeded(ActionPlainNeighbor)
}

func (x *NeighborExecutor) openPanel(ctx context.Context, tab Tab, kind ActionKind) (ActionOutcome, bool) {
	if _, err := x.clickRole(ctx, tab, RoleNeighborAddButton); err != nil {
		logrus.Warnf("未找到或无法点击邻居添加按钮: %v", err)
		return failed(kind, ReasonControlNotFound, err), false
	}
	// 等待申请面板或页面出现
	x.settle(ctx, 1500, 2500)
	return ActionOutcome{}, true
}

func (x *NeighborExecutor) confirm(ctx context.Context, tab Tab, kind ActionKind) (ActionOutcome, bool) {
	x.settle(ctx, 800, 1200)
	if _, err := x.clickRole(ctx, tab, RoleConfirmButton); err != nil {
		logrus.Warnf("未找到或无法点击确认按钮: %v", err)
		return failed(kind, ReasonConfirmNotFound, err), false
	}
	x.settle(ctx, 1500, 2500)
	return ActionOutcome{}, true
}

// composeMessage 清掉默认留言再写入轮换的留言，失败只记录日志
func (x *NeighborExecutor) composeMessage(ctx context.Context, tab Tab, message string) {
	field, err := x.resolver.Resolve(ctx, tab, RoleNeighborMessageInput)
	if err != nil {
		logrus.Warn("未找到互邻留言输入框，使用默认留言")
		return
	}
	_ = field.ScrollIntoView(ctx)
	if err := x.replaceText(ctx, field, message); err != nil {
		logrus.Warnf("填写互邻留言失败: %v", err)
		return
	}
	logrus.Debugf("已填写互邻留言: %s", preview(message))
}

// ensureRadioChecked 点击的是 <label for=...> 时，确认关联的 radio 已经选中
func (x *NeighborExecutor) ensureRadioChecked(ctx context.Context, tab Tab, toggle Element) {
	if toggle.Tag(ctx) != "label" {
		return
	}
	id, ok := toggle.Attr(ctx, "for")
	if !ok || id == "" || strings.ContainsAny(id, `'"`) {
		return
	}
	radios, err := tab.Find(ctx, Locator{XPath: fmt.Sprintf(`//*[@id='%s']`, id)})
	if err != nil || len(radios) == 0 {
		return
	}
	if radios[0].Checked(ctx) {
		return
	}
	if err := radios[0].Click(ctx); err != nil {
		logrus.Debugf("点击 radio %s 失败: %v", id, err)
	}
}

func (x *NeighborExecutor) verify(ctx context.Context, tab Tab) bool {
	source, err := tab.Source(ctx)
	if err != nil {
		logrus.Warnf("读取页面失败，无法验证: %v", err)
		return false
	}
	for _, m := range x.markers {
		if strings.Contains(source, m) {
			return true
		}
	}
	return false
}
