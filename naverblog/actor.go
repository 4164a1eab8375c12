package naverblog

import (
	"context"
	"math/rand"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

// settleFunc 两次页面操作之间的停顿（毫秒区间）
type settleFunc func(ctx context.Context, minMs, maxMs int)

// actor 各个动作执行器共用的能力：解析控件、滚动后点击、停顿
type actor struct {
	resolver *Resolver
	settle   settleFunc
}

// clickRole 解析角色，滚动到可见位置后点击
func (a *actor) clickRole(ctx context.Context, scope Scope, role Role) (Element, error) {
	el, err := a.resolver.Resolve(ctx, scope, role)
	if err != nil {
		return nil, err
	}
	return el, a.click(ctx, el)
}

func (a *actor) click(ctx context.Context, el Element) error {
	// 滚动失败不影响点击
	_ = el.ScrollIntoView(ctx)
	a.settle(ctx, 200, 500)
	return el.Click(ctx)
}

// replaceText 清空后写入文本
func (a *actor) replaceText(ctx context.Context, el Element, text string) error {
	if err := el.Clear(ctx); err != nil {
		return err
	}
	a.settle(ctx, 200, 400)
	return el.Type(ctx, text)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// sleepRandom 随机停顿，ctx 取消时立即返回
func sleepRandom(ctx context.Context, minMs, maxMs int) {
	d := randomDuration(minMs, maxMs)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// randomDuration 生成随机时长（毫秒）
func randomDuration(min, max int) time.Duration {
	if max <= min {
		return time.Duration(min) * time.Millisecond
	}
	return time.Duration(rand.Intn(max-min+1)+min) * time.Millisecond
}

// preview 日志中展示的文本摘要，按显示宽度截断（韩文占两列）
func preview(text string) string {
	return runewidth.Truncate(text, 40, "…")
}
