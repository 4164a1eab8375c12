package naverblog

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CommentExecutor 댓글（评论）
//
// CheckAlreadyCommented → [OpenPanel] → [Focus] → Clear → Write → Submit
type CommentExecutor struct {
	actor
}

func (x *CommentExecutor) Run(ctx context.Context, tab Tab, text string) ActionOutcome {
	if x.alreadyCommented(ctx, tab) {
		logrus.Info("已经评论过，跳过")
		return skipped(ActionComment, ReasonAlreadyCommented)
	}

	// 输入区不在页面上时先展开评论区
	if !x.resolver.Exists(ctx, tab, RoleCommentInputArea) && !x.resolver.Exists(ctx, tab, RoleCommentEditor) {
		if _, err := x.clickRole(ctx, tab, RoleCommentOpenButton); err != nil {
			logrus.Warnf("未找到评论按钮: %v", err)
			return failed(ActionComment, ReasonControlNotFound, err)
		}
		x.settle(ctx, 1500, 2500)

		// 评论列表展开后再检查一次
		if x.alreadyCommented(ctx, tab) {
			logrus.Info("已经评论过，跳过")
			return skipped(ActionComment, ReasonAlreadyCommented)
		}
	}

	// 点击占位区域让输入框进入可编辑状态，有的布局没有占位区域
	if _, err := x.clickRole(ctx, tab, RoleCommentInputArea); err != nil && !isNotFound(err) {
		logrus.Debugf("点击评论占位区域失败: %v", err)
	}
	x.settle(ctx, 300, 600)

	editor, err := x.resolver.Resolve(ctx, tab, RoleCommentEditor)
	if err != nil {
		logrus.Warnf("未找到评论输入框: %v", err)
		return failed(ActionComment, ReasonControlNotFound, err)
	}
	if err := x.click(ctx, editor); err != nil {
		logrus.Debugf("聚焦评论输入框失败: %v", err)
	}
	if err := x.replaceText(ctx, editor, text); err != nil {
		logrus.Warnf("输入评论失败: %v", err)
		return failed(ActionComment, ReasonControlNotFound, err)
	}
	x.settle(ctx, 500, 1000)

	if _, err := x.clickRole(ctx, tab, RoleCommentSubmitButton); err != nil {
		logrus.Warnf("未找到或无法点击评论提交按钮: %v", err)
		return failed(ActionComment, ReasonControlNotFound, err)
	}
	x.settle(ctx, 1000, 2000)

	logrus.Infof("评论成功: %s", preview(text))
	return succeeded(ActionComment)
}

// alreadyCommented 评论列表中存在当前用户的编辑/删除按钮
func (x *CommentExecutor) alreadyCommented(ctx context.Context, tab Tab) bool {
	return x.resolver.Exists(ctx, tab, RoleOwnCommentControl)
}
