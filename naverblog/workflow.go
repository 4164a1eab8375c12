package naverblog

import (
	"context"

	"github.com/sirupsen/logrus"
)

// TargetWorkflow 单个目标的处理流程
//
// Opening → Like? → NeighborFlow? → Comment? → Closing。
// 互邻/邻居流程可能跳转页面，所以只作用于文章内容的点赞和评论分别排在它前后。
type TargetWorkflow struct {
	surface  Surface
	settle   settleFunc
	like     *LikeExecutor
	neighbor *NeighborExecutor
	comment  *CommentExecutor
}

func newTargetWorkflow(surface Surface, o options) *TargetWorkflow {
	base := actor{resolver: NewResolver(o.strategies), settle: o.settle}
	return &TargetWorkflow{
		surface:  surface,
		settle:   o.settle,
		like:     &LikeExecutor{actor: base},
		neighbor: &NeighborExecutor{actor: base, markers: o.markers},
		comment:  &CommentExecutor{actor: base},
	}
}

// Run 打开目标、按固定顺序执行启用的动作，并保证在任何路径上关闭标签页
func (w *TargetWorkflow) Run(ctx context.Context, t Target, cfg RunConfig, control Control) (TargetResult, error) {
	log := logrus.WithFields(logrus.Fields{"target": t.Handle, "index": t.SequenceIndex})

	tab, err := w.surface.Open(ctx, t.Handle)
	if err != nil {
		log.Warnf("打开文章失败: %v", err)
		return failedResult(t, ReasonOpenFailed), nil
	}
	defer func() {
		if err := tab.Close(); err != nil {
			log.Warnf("关闭标签页失败: %v", err)
		}
	}()
	w.settle(ctx, 1500, 3000)

	stopped := func() bool { return ctx.Err() != nil || control.StopRequested() }

	var like, neighbor, comment *ActionOutcome

	if cfg.Enabled(ActionLike) && !stopped() {
		o := w.like.Run(ctx, tab)
		log.Debugf("点赞结果: %s", o)
		like = &o
		w.settle(ctx, 500, 3000)
	}

	if cfg.wantsNeighborFlow() && !stopped() {
		o := w.runNeighborFlow(ctx, tab, t, cfg)
		log.Debugf("邻居流程结果: %s", o)
		if !o.OK() {
			// 邻居流程失败时结束该目标，不再评论。
			// 没有邻居添加按钮（面板没打开）时，已成功的点赞仍算作该目标的结果。
			if o.Reason == ReasonControlNotFound && like != nil && like.OK() {
				log.Info("没有邻居添加按钮，按点赞结果记录")
				return decideResult(t, like, nil, nil), nil
			}
			return failedResult(t, o.Reason), nil
		}
		neighbor = &o
	}

	if cfg.Enabled(ActionComment) && !stopped() {
		o := w.comment.Run(ctx, tab, cfg.CommentFor(t.SequenceIndex))
		log.Debugf("评论结果: %s", o)
		comment = &o
	}

	return decideResult(t, like, neighbor, comment), nil
}

func (w *TargetWorkflow) runNeighborFlow(ctx context.Context, tab Tab, t Target, cfg RunConfig) ActionOutcome {
	if !cfg.Enabled(ActionMutualNeighbor) {
		return w.neighbor.Plain(ctx, tab, false)
	}

	message, hasMessage := cfg.NeighborMessageFor(t.SequenceIndex)
	out := w.neighbor.Mutual(ctx, tab, message, hasMessage)
	if out.Status == StatusFailed && out.Reason == ReasonMutualUnavailable && !cfg.MutualOnly {
		logrus.WithField("target", t.Handle).Info("互邻不可用，降级为普通邻居")
		return w.neighbor.Plain(ctx, tab, true)
	}
	return out
}

// decideResult 每个目标只记录一个最终结果：
// 邻居流程 > 点赞 > 评论；都没有成功时取第一个失败原因，什么都没执行则视为被取消。
func decideResult(t Target, like, neighbor, comment *ActionOutcome) TargetResult {
	if neighbor != nil {
		kind := ResultPlainNeighbor
		if neighbor.Kind == ActionMutualNeighbor {
			kind = ResultMutual
		}
		return TargetResult{Target: t, Outcome: kind}
	}
	if like != nil && like.OK() {
		return TargetResult{Target: t, Outcome: ResultLike, Skipped: like.AlreadyDone}
	}
	if comment != nil && comment.OK() {
		return TargetResult{Target: t, Outcome: ResultComment, Skipped: comment.Status == StatusSkipped}
	}
	for _, o := range []*ActionOutcome{like, comment} {
		if o != nil && !o.OK() {
			return failedResult(t, o.Reason)
		}
	}
	return failedResult(t, ReasonCancelled)
}
