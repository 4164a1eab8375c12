package naverblog

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ActionKind 单个目标上可执行的动作类型
type ActionKind string

const (
	ActionMutualNeighbor ActionKind = "mutual"
	ActionPlainNeighbor  ActionKind = "neighbor"
	ActionLike           ActionKind = "like"
	ActionComment        ActionKind = "comment"
)

// ParseActionKind 解析配置中的动作名称，大小写不敏感
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(s))) {
	case ActionMutualNeighbor, "mutual_neighbor", "mutual-neighbor":
		return ActionMutualNeighbor, nil
	case ActionPlainNeighbor, "plain", "plain_neighbor", "plain-neighbor":
		return ActionPlainNeighbor, nil
	case ActionLike:
		return ActionLike, nil
	case ActionComment:
		return ActionComment, nil
	}
	return "", errors.Errorf("未知的动作类型: %q", s)
}

// Reason 失败/跳过原因，封闭集合
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonControlNotFound    Reason = "ControlNotFound"
	ReasonConfirmNotFound    Reason = "ConfirmNotFound"
	ReasonMutualUnavailable  Reason = "MutualUnavailable"
	ReasonVerificationFailed Reason = "VerificationFailed"
	ReasonAlreadyCommented   Reason = "AlreadyCommented"
	ReasonOpenFailed         Reason = "OpenFailed"
	ReasonInternalError      Reason = "InternalError"
	ReasonCancelled          Reason = "Cancelled"
)

// Target 一条待处理的博客文章
type Target struct {
	// Handle 打开文章所需的引用，通常是 URL
	Handle string `json:"handle"`
	// SequenceIndex 在发现列表中的位置（从 0 开始），用于轮换评论/留言
	SequenceIndex int `json:"sequence_index"`
}

// OutcomeStatus ActionOutcome 的标签
type OutcomeStatus int

const (
	StatusSucceeded OutcomeStatus = iota
	StatusSkipped
	StatusFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ActionOutcome 一次动作执行的结果
type ActionOutcome struct {
	Kind   ActionKind
	Status OutcomeStatus
	Reason Reason
	// AlreadyDone 点赞时目标已处于“已点赞”状态，未再次切换
	AlreadyDone bool
	// Err 附带的底层错误，仅用于日志
	Err error
}

func succeeded(kind ActionKind) ActionOutcome {
	return ActionOutcome{Kind: kind, Status: StatusSucceeded}
}

func skipped(kind ActionKind, reason Reason) ActionOutcome {
	return ActionOutcome{Kind: kind, Status: StatusSkipped, Reason: reason}
}

func failed(kind ActionKind, reason Reason, err error) ActionOutcome {
	return ActionOutcome{Kind: kind, Status: StatusFailed, Reason: reason, Err: err}
}

// OK 成功或跳过都视为“非失败”
func (o ActionOutcome) OK() bool { return o.Status != StatusFailed }

func (o ActionOutcome) String() string {
	if o.Reason == ReasonNone {
		return fmt.Sprintf("%s:%s", o.Kind, o.Status)
	}
	return fmt.Sprintf("%s:%s(%s)", o.Kind, o.Status, o.Reason)
}

// ResultKind 一个目标的最终归类
type ResultKind string

const (
	ResultMutual        ResultKind = "mutual"
	ResultPlainNeighbor ResultKind = "neighbor"
	ResultLike          ResultKind = "like"
	ResultComment       ResultKind = "comment"
	ResultFailed        ResultKind = "failed"
)

// TargetResult 单个目标的处理汇总，Reason 仅在 Failed 时有值
type TargetResult struct {
	Target  Target     `json:"target"`
	Outcome ResultKind `json:"outcome"`
	Reason  Reason     `json:"reason,omitempty"`
	// Skipped 最终结果来自“已完成”的短路（已点赞 / 已评论）
	Skipped bool `json:"skipped,omitempty"`
}

func (r TargetResult) Succeeded() bool { return r.Outcome != ResultFailed }

func failedResult(t Target, reason Reason) TargetResult {
	return TargetResult{Target: t, Outcome: ResultFailed, Reason: reason}
}

// RunSummary 一次运行的累计计数
//
// 只有 RunSession 写入；进度回调拿到的是值拷贝。
type RunSummary struct {
	Attempted     int `json:"attempted"`
	Succeeded     int `json:"succeeded"`
	Failed        int `json:"failed"`
	Skipped       int `json:"skipped"`
	MutualCount   int `json:"mutual_count"`
	NeighborCount int `json:"neighbor_count"`
	LikeCount     int `json:"like_count"`
	CommentCount  int `json:"comment_count"`
	// Total 截断后计划处理的目标数
	Total int `json:"total"`
	// Stopped 运行因停止请求提前结束
	Stopped bool `json:"stopped"`
}

// record 累加一个目标结果，保持 Attempted == Succeeded + Failed
func (s *RunSummary) record(r TargetResult) {
	s.Attempted++
	if !r.Succeeded() {
		s.Failed++
		return
	}
	s.Succeeded++
	if r.Skipped {
		s.Skipped++
	}
	switch r.Outcome {
	case ResultMutual:
		s.MutualCount++
	case ResultPlainNeighbor:
		s.NeighborCount++
	case ResultLike:
		s.LikeCount++
	case ResultComment:
		s.CommentCount++
	}
}
