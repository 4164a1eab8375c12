package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// fakeRunner 等到停止请求或 finish 关闭后返回
type fakeRunner struct {
	loggedIn bool
	loginErr error
	runErr   error

	finish  chan struct{}
	started chan struct{}

	mu      sync.Mutex
	keyword string
	cfg     naverblog.RunConfig
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{loggedIn: true, finish: make(chan struct{}), started: make(chan struct{}, 1)}
}

func (r *fakeRunner) CheckLogin(context.Context) (bool, error) {
	return r.loggedIn, r.loginErr
}

func (r *fakeRunner) Run(ctx context.Context, keyword string, cfg naverblog.RunConfig, control naverblog.Control,
	onTargets func(int), onProgress func(naverblog.RunSummary)) (naverblog.RunSummary, error) {
	r.mu.Lock()
	r.keyword, r.cfg = keyword, cfg
	r.mu.Unlock()

	onTargets(3)
	summary := naverblog.RunSummary{Total: 3, Attempted: 1, Succeeded: 1, LikeCount: 1}
	onProgress(summary)
	r.started <- struct{}{}

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.finish:
			return summary, r.runErr
		case <-ctx.Done():
			summary.Stopped = true
			return summary, nil
		case <-ticker.C:
			if control.StopRequested() {
				summary.Stopped = true
				return summary, nil
			}
		}
	}
}

func waitState(t *testing.T, s *NaverBlogService, want RunState) *RunProgress {
	t.Helper()
	var p *RunProgress
	require.Eventually(t, func() bool {
		var err error
		p, err = s.Progress()
		return err == nil && p.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return p
}

func likeRequest() *StartRunRequest {
	return &StartRunRequest{Keyword: "여행", Actions: []string{"like"}, MaxTargets: 3}
}

func TestServiceRunLifecycle(t *testing.T) {
	runner := newFakeRunner()
	s := newNaverBlogService(runner)

	_, err := s.Progress()
	assert.ErrorIs(t, err, ErrNoRun)

	p, err := s.StartRun(likeRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, p.RunID)
	assert.Equal(t, RunStateRunning, p.State)
	<-runner.started

	_, err = s.StartRun(likeRequest())
	assert.ErrorIs(t, err, ErrRunActive)

	p, err = s.PauseRun()
	require.NoError(t, err)
	assert.Equal(t, RunStatePaused, p.State)

	p, err = s.ResumeRun()
	require.NoError(t, err)
	assert.Equal(t, RunStateRunning, p.State)
	assert.Equal(t, 3, p.Targets)
	assert.Equal(t, 1, p.Summary.LikeCount)

	close(runner.finish)
	p = waitState(t, s, RunStateCompleted)
	assert.NotNil(t, p.FinishedAt)
	assert.Equal(t, "여행", runner.keyword)
	assert.Equal(t, []naverblog.ActionKind{naverblog.ActionLike}, runner.cfg.Actions)

	// 运行结束后可以再次启动
	_, err = s.PauseRun()
	assert.ErrorIs(t, err, ErrNoRun)

	runner2 := newFakeRunner()
	s.runner = runner2
	_, err = s.StartRun(likeRequest())
	require.NoError(t, err)
	<-runner2.started
	require.NoError(t, s.Shutdown(context.Background()))
	waitState(t, s, RunStateStopped)
}

func TestServiceStopRun(t *testing.T) {
	runner := newFakeRunner()
	s := newNaverBlogService(runner)

	_, err := s.StartRun(likeRequest())
	require.NoError(t, err)
	<-runner.started

	p, err := s.StopRun()
	require.NoError(t, err)
	assert.Equal(t, RunStateStopping, p.State)

	p = waitState(t, s, RunStateStopped)
	assert.True(t, p.Summary.Stopped)
}

func TestServiceRunFailed(t *testing.T) {
	runner := newFakeRunner()
	runner.runErr = errors.New("未登录")
	close(runner.finish)
	s := newNaverBlogService(runner)

	_, err := s.StartRun(likeRequest())
	require.NoError(t, err)

	p := waitState(t, s, RunStateFailed)
	assert.Equal(t, "未登录", p.Error)
}

func TestServiceStartRunValidation(t *testing.T) {
	s := newNaverBlogService(newFakeRunner())

	_, err := s.StartRun(&StartRunRequest{Actions: []string{"like"}})
	assert.Error(t, err, "缺少关键词")

	_, err = s.StartRun(&StartRunRequest{Keyword: "x", Actions: []string{"share"}})
	assert.Error(t, err)

	_, err = s.Progress()
	assert.ErrorIs(t, err, ErrNoRun, "校验失败不应创建运行")
}

func TestServiceCheckLoginStatus(t *testing.T) {
	runner := newFakeRunner()
	s := newNaverBlogService(runner)

	status, err := s.CheckLoginStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsLoggedIn)

	runner.loginErr = errors.New("browser down")
	_, err = s.CheckLoginStatus(context.Background())
	assert.Error(t, err)
}
