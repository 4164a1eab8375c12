package naverblog

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultPollInterval 暂停/停止标志的轮询间隔
const DefaultPollInterval = 200 * time.Millisecond

// Control 引擎对暂停/停止标志的只读视图
type Control interface {
	StopRequested() bool
	Paused() bool
}

// WorkControl 由外部控制方（HTTP、MCP、命令行信号）修改，引擎只读
type WorkControl struct {
	stop  atomic.Bool
	pause atomic.Bool
}

func NewWorkControl() *WorkControl { return &WorkControl{} }

func (c *WorkControl) Stop()   { c.stop.Store(true) }
func (c *WorkControl) Pause()  { c.pause.Store(true) }
func (c *WorkControl) Resume() { c.pause.Store(false) }

func (c *WorkControl) StopRequested() bool { return c.stop.Load() }
func (c *WorkControl) Paused() bool        { return c.pause.Load() }

// noControl 调用方没有传入控制对象时使用
type noControl struct{}

func (noControl) StopRequested() bool { return false }
func (noControl) Paused() bool        { return false }

// WaitResult Pacer.Wait 的结果
type WaitResult int

const (
	WaitCompleted WaitResult = iota
	WaitCancelled
)

func (r WaitResult) String() string {
	if r == WaitCancelled {
		return "cancelled"
	}
	return "completed"
}

// Pacer 可中断的目标间隔等待
type Pacer struct {
	interval time.Duration
}

func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Pacer{interval: interval}
}

// Wait 等待 d，每个轮询间隔检查一次标志。
// 停止请求（或 ctx 取消）在一个间隔内返回 WaitCancelled；
// 暂停期间不消耗剩余时长。
func (p *Pacer) Wait(ctx context.Context, d time.Duration, control Control) WaitResult {
	if control == nil {
		control = noControl{}
	}
	remaining := d
	last := time.Now()
	for {
		if ctx.Err() != nil || control.StopRequested() {
			return WaitCancelled
		}
		paused := control.Paused()
		if !paused && remaining <= 0 {
			return WaitCompleted
		}

		step := p.interval
		if !paused && remaining < step {
			step = remaining
		}
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return WaitCancelled
		case <-timer.C:
		}

		now := time.Now()
		if !paused {
			remaining -= now.Sub(last)
		}
		last = now
	}
}

// WaitWhilePaused 暂停期间阻塞；返回 false 表示等待中收到了停止请求
func (p *Pacer) WaitWhilePaused(ctx context.Context, control Control) bool {
	if control == nil {
		return ctx.Err() == nil
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for control.Paused() {
		if control.StopRequested() {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return ctx.Err() == nil && !control.StopRequested()
}
