package naverblog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type options struct {
	strategies   StrategyTable
	markers      []string
	pollInterval time.Duration
	settle       settleFunc
}

// Option RunSession 选项
type Option func(*options)

// WithStrategies 替换策略表（通常来自 selectors.yaml 与默认表的合并）
func WithStrategies(table StrategyTable) Option {
	return func(o *options) {
		o.strategies = table
	}
}

// WithSuccessMarkers 替换互邻成功提示
func WithSuccessMarkers(markers []string) Option {
	return func(o *options) {
		o.markers = markers
	}
}

// WithPollInterval 设置暂停/停止标志的轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithoutSettle 去掉页面操作之间的随机停顿，测试用
func WithoutSettle() Option {
	return func(o *options) {
		o.settle = func(context.Context, int, int) {}
	}
}

// targetRunner 处理单个目标，TargetWorkflow 实现
type targetRunner interface {
	Run(ctx context.Context, t Target, cfg RunConfig, control Control) (TargetResult, error)
}

// RunSession 按顺序驱动目标列表并汇总结果
type RunSession struct {
	runner targetRunner
	pacer  *Pacer
}

func NewRunSession(surface Surface, opts ...Option) *RunSession {
	o := options{
		strategies:   DefaultStrategies(),
		markers:      SuccessMarkers,
		pollInterval: DefaultPollInterval,
		settle:       sleepRandom,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &RunSession{
		runner: newTargetWorkflow(surface, o),
		pacer:  NewPacer(o.pollInterval),
	}
}

// Run 处理 targets（截断到 MaxTargets），每个目标之后回调 onProgress，
// 目标之间按配置等待。单个目标的错误或 panic 记为 InternalError，不会中断运行；
// 只有停止请求（或 ctx 取消）会提前结束。
func (s *RunSession) Run(ctx context.Context, targets []Target, cfg RunConfig, control Control, onProgress func(RunSummary)) RunSummary {
	var summary RunSummary
	if len(targets) == 0 {
		return summary
	}
	if err := cfg.Validate(); err != nil {
		logrus.Errorf("运行配置无效: %v", err)
		return summary
	}
	if control == nil {
		control = noControl{}
	}
	if len(targets) > cfg.MaxTargets {
		targets = targets[:cfg.MaxTargets]
	}
	summary.Total = len(targets)

	logrus.Infof("开始处理 %d 个目标，动作: %v，间隔: %.1f 秒", len(targets), cfg.Actions, cfg.DelaySeconds)

	for i, t := range targets {
		if ctx.Err() != nil || control.StopRequested() {
			logrus.Info("收到停止请求，结束运行")
			summary.Stopped = true
			break
		}
		if control.Paused() {
			logrus.Info("已暂停，等待恢复...")
			if !s.pacer.WaitWhilePaused(ctx, control) {
				logrus.Info("暂停期间收到停止请求，结束运行")
				summary.Stopped = true
				break
			}
			logrus.Info("已恢复")
		}

		result := s.process(ctx, t, cfg, control)
		summary.record(result)

		entry := logrus.WithFields(logrus.Fields{"target": t.Handle, "outcome": result.Outcome})
		if result.Succeeded() {
			entry.Infof("[%d/%d] 处理成功", i+1, len(targets))
		} else {
			entry.Warnf("[%d/%d] 处理失败: %s", i+1, len(targets), result.Reason)
		}

		notify(onProgress, summary)

		if i < len(targets)-1 {
			if s.pacer.Wait(ctx, cfg.Delay(), control) == WaitCancelled {
				logrus.Info("等待期间收到停止请求，结束运行")
				summary.Stopped = true
				break
			}
		}
	}

	logrus.Infof("运行结束 - 处理%d个, 成功%d个, 失败%d个 (互邻%d, 邻居%d, 点赞%d, 评论%d)",
		summary.Attempted, summary.Succeeded, summary.Failed,
		summary.MutualCount, summary.NeighborCount, summary.LikeCount, summary.CommentCount)
	return summary
}

// process 执行单个目标，把错误和 panic 归类为 InternalError
func (s *RunSession) process(ctx context.Context, t Target, cfg RunConfig, control Control) (result TargetResult) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("target", t.Handle).Errorf("处理目标时发生 panic: %v", r)
			result = failedResult(t, ReasonInternalError)
		}
	}()

	result, err := s.runner.Run(ctx, t, cfg, control)
	if err != nil {
		logrus.WithField("target", t.Handle).Errorf("处理目标出错: %v", err)
		return failedResult(t, ReasonInternalError)
	}
	result.Target = t
	if result.Outcome == ResultFailed && result.Reason == ReasonNone {
		result.Reason = ReasonInternalError
	}
	if result.Outcome != ResultFailed {
		result.Reason = ReasonNone
	}
	return result
}

// notify 回调中的 panic 不影响运行
func notify(onProgress func(RunSummary), summary RunSummary) {
	if onProgress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("进度回调出错: %v", fmt.Sprint(r))
		}
	}()
	onProgress(summary)
}
