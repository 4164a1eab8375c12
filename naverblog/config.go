package naverblog

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultMaxTargets   = 10
	DefaultDelaySeconds = 30
	// DefaultComment 评论池为空时使用的内置评论
	DefaultComment = "좋은 글 잘 보고 갑니다 :)"
)

// RunConfig 一次运行的配置，运行期间不可变
type RunConfig struct {
	// Actions 启用的动作集合
	Actions []ActionKind `json:"actions"`
	// MutualOnly 为 true 时，互邻失败不降级为普通邻居
	MutualOnly bool `json:"mutual_only"`
	// MaxTargets 最多处理的目标数
	MaxTargets int `json:"max_targets"`
	// DelaySeconds 目标之间的间隔（秒）
	DelaySeconds float64 `json:"delay_seconds"`
	// CommentPool 评论内容，按 SequenceIndex 取模轮换
	CommentPool []string `json:"comment_pool,omitempty"`
	// NeighborMessagePool 互邻申请留言，可为空（为空则不填写留言）
	NeighborMessagePool []string `json:"neighbor_message_pool,omitempty"`
}

// Validate 校验配置
func (c RunConfig) Validate() error {
	if len(c.Actions) == 0 {
		return errors.New("至少需要启用一个动作")
	}
	for _, a := range c.Actions {
		if _, err := ParseActionKind(string(a)); err != nil {
			return err
		}
	}
	if c.MaxTargets <= 0 {
		return errors.Errorf("max_targets 必须大于 0，当前: %d", c.MaxTargets)
	}
	if c.DelaySeconds < 0 {
		return errors.Errorf("delay_seconds 不能为负数，当前: %v", c.DelaySeconds)
	}
	return nil
}

// Enabled 判断某个动作是否启用
func (c RunConfig) Enabled(kind ActionKind) bool {
	for _, a := range c.Actions {
		if a == kind {
			return true
		}
	}
	return false
}

// wantsNeighborFlow 是否需要执行邻居/互邻流程
func (c RunConfig) wantsNeighborFlow() bool {
	return c.Enabled(ActionMutualNeighbor) || c.Enabled(ActionPlainNeighbor)
}

// Delay 目标间隔
func (c RunConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}

// CommentFor 取第 idx 个目标应使用的评论
func (c RunConfig) CommentFor(idx int) string {
	if text, ok := rotate(c.CommentPool, idx); ok {
		return text
	}
	return DefaultComment
}

// NeighborMessageFor 取第 idx 个目标的互邻留言；池为空时返回 false
func (c RunConfig) NeighborMessageFor(idx int) (string, bool) {
	return rotate(c.NeighborMessagePool, idx)
}

// rotate pool[idx mod len(pool)]，负数下标按非负余数处理
func rotate(pool []string, idx int) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	i := idx % len(pool)
	if i < 0 {
		i += len(pool)
	}
	return pool[i], true
}

// NormalizePool 按行整理文本池：去首尾空白、丢弃空行
func NormalizePool(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
