package naverblog

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// 点赞按钮懒加载，找不到或点击失败时间隔重试
const (
	likeAttempts    = 5
	likeRetryWaitMs = 1500
)

// LikeExecutor 공감（点赞）
//
// Idle → Locate → CheckState → [Toggle]。已点赞时直接成功，不再点击，
// 否则第二次点击会取消点赞。
type LikeExecutor struct {
	actor
}

func (x *LikeExecutor) Run(ctx context.Context, tab Tab) ActionOutcome {
	// 点赞按钮懒加载，先滚到页面中部
	if err := tab.ScrollTo(ctx, 1.0/3); err != nil {
		logrus.Debugf("滚动页面失败: %v", err)
	}
	x.settle(ctx, 500, 1000)

	var err error
	for attempt := 1; attempt <= likeAttempts; attempt++ {
		if attempt > 1 {
			if ctx.Err() != nil {
				break
			}
			logrus.Debugf("点赞按钮未就绪，第 %d 次重试", attempt-1)
			x.settle(ctx, likeRetryWaitMs, likeRetryWaitMs)
		}

		var toggle Element
		toggle, err = x.resolver.Resolve(ctx, tab, RoleLikeToggle)
		if err != nil {
			continue
		}
		if likeIsOn(ctx, toggle) {
			logrus.Info("已经点过赞，跳过")
			out := succeeded(ActionLike)
			out.AlreadyDone = true
			return out
		}
		if err = x.click(ctx, toggle); err == nil {
			break
		}
	}
	if err != nil {
		logrus.Warnf("未找到或无法点击点赞按钮: %v", err)
		return failed(ActionLike, ReasonControlNotFound, err)
	}
	x.settle(ctx, 1000, 1500)

	// 点击后可能弹出表情层，选择“공감”
	if option, err := x.resolver.Resolve(ctx, tab, RoleLikeReactionOption); err == nil {
		if err := x.click(ctx, option); err != nil {
			logrus.Debugf("点击表情选项失败: %v", err)
		}
		x.settle(ctx, 800, 1200)
	}

	// “더이상 공감을 추가할 수 없습니다” 之类的弹窗只说明点击已经发生，不算失败
	x.dismissPopup(ctx, tab)

	logrus.Info("点赞成功")
	return succeeded(ActionLike)
}

// dismissPopup 尽力关闭弹窗：先找确认/关闭按钮，找不到再按 ESC
func (x *LikeExecutor) dismissPopup(ctx context.Context, tab Tab) {
	if _, err := x.clickRole(ctx, tab, RoleDismissPopupButton); err == nil {
		logrus.Debug("已关闭点赞后的弹窗")
		x.settle(ctx, 500, 1000)
		return
	}
	if !x.resolver.Exists(ctx, tab, RolePopupContainer) {
		return
	}
	if err := tab.PressEscape(ctx); err != nil {
		logrus.Warnf("关闭弹窗失败: %v", err)
		return
	}
	x.settle(ctx, 500, 1000)
}

// likeIsOn 从属性判断点赞状态：aria-pressed 优先，其次看 class 中的 on/off
func likeIsOn(ctx context.Context, el Element) bool {
	if v, ok := el.Attr(ctx, "aria-pressed"); ok {
		return strings.EqualFold(v, "true")
	}
	class, _ := el.Attr(ctx, "class")
	var on, off bool
	for _, token := range strings.Fields(class) {
		switch token {
		case "on":
			on = true
		case "off":
			off = true
		}
	}
	return on && !off
}
