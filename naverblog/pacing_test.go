package naverblog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestWaitCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPacer(10 * time.Millisecond)
	start := time.Now()
	res := p.Wait(context.Background(), 50*time.Millisecond, NewWorkControl())

	assert.Equal(t, WaitCompleted, res)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWaitZeroDuration(t *testing.T) {
	p := NewPacer(10 * time.Millisecond)
	assert.Equal(t, WaitCompleted, p.Wait(context.Background(), 0, nil))
}

func TestWaitStopWithinInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPacer(20 * time.Millisecond)
	control := NewWorkControl()
	go func() {
		time.Sleep(30 * time.Millisecond)
		control.Stop()
	}()

	start := time.Now()
	res := p.Wait(context.Background(), time.Minute, control)
	assert.Equal(t, WaitCancelled, res)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitAlreadyStopped(t *testing.T) {
	control := NewWorkControl()
	control.Stop()
	res := NewPacer(time.Second).Wait(context.Background(), time.Minute, control)
	assert.Equal(t, WaitCancelled, res)
}

func TestWaitContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res := NewPacer(time.Second).Wait(ctx, time.Minute, nil)
	assert.Equal(t, WaitCancelled, res)
}

func TestWaitPauseDoesNotConsumeDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPacer(5 * time.Millisecond)
	control := NewWorkControl()
	control.Pause()
	go func() {
		time.Sleep(100 * time.Millisecond)
		control.Resume()
	}()

	start := time.Now()
	res := p.Wait(context.Background(), 50*time.Millisecond, control)
	assert.Equal(t, WaitCompleted, res)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestWaitWhilePaused(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPacer(5 * time.Millisecond)

	control := NewWorkControl()
	assert.True(t, p.WaitWhilePaused(context.Background(), control))

	control.Pause()
	go func() {
		time.Sleep(30 * time.Millisecond)
		control.Resume()
	}()
	assert.True(t, p.WaitWhilePaused(context.Background(), control))

	control.Pause()
	go func() {
		time.Sleep(30 * time.Millisecond)
		control.Stop()
	}()
	assert.False(t, p.WaitWhilePaused(context.Background(), control))
}
