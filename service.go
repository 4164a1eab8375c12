package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xpzouying/naverblog-mcp/browser"
	"github.com/xpzouying/naverblog-mcp/configs"
	"github.com/xpzouying/naverblog-mcp/cookies"
	"github.com/xpzouying/naverblog-mcp/naverblog"
)

var (
	ErrRunActive = errors.New("已有运行中的任务")
	ErrNoRun     = errors.New("当前没有运行任务")
)

// engagementRunner 执行登录检查和一次完整运行（搜索 + 互动），测试时替换
type engagementRunner interface {
	CheckLogin(ctx context.Context) (bool, error)
	Run(ctx context.Context, keyword string, cfg naverblog.RunConfig, control naverblog.Control,
		onTargets func(int), onProgress func(naverblog.RunSummary)) (naverblog.RunSummary, error)
}

// NaverBlogService 业务服务层，同一时间只允许一个运行
type NaverBlogService struct {
	runner engagementRunner

	mu      sync.Mutex
	current *RunProgress
	control *naverblog.WorkControl
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewNaverBlogService(strategies naverblog.StrategyTable) *NaverBlogService {
	return newNaverBlogService(&browserRunner{
		manager:    browser.GetGlobalManager(),
		strategies: strategies,
	})
}

func newNaverBlogService(runner engagementRunner) *NaverBlogService {
	return &NaverBlogService{runner: runner}
}

// CheckLoginStatus 检查登录状态
func (s *NaverBlogService) CheckLoginStatus(ctx context.Context) (*LoginStatusResponse, error) {
	ok, err := s.runner.CheckLogin(ctx)
	if err != nil {
		return nil, err
	}
	return &LoginStatusResponse{IsLoggedIn: ok}, nil
}

// StartRun 校验请求并在后台启动运行，立即返回初始进度
func (s *NaverBlogService) StartRun(req *StartRunRequest) (*RunProgress, error) {
	rf := configs.RunFile{
		Keyword:          req.Keyword,
		Actions:          req.Actions,
		MutualOnly:       req.MutualOnly,
		MaxTargets:       req.MaxTargets,
		DelaySeconds:     req.DelaySeconds,
		Comments:         req.Comments,
		NeighborMessages: req.NeighborMessages,
	}
	if rf.Keyword == "" {
		return nil, errors.New("keyword 不能为空")
	}
	cfg, err := rf.ToRunConfig()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Active() {
		return nil, ErrRunActive
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.current = &RunProgress{
		RunID:     uuid.NewString(),
		State:     RunStateRunning,
		Keyword:   rf.Keyword,
		StartedAt: time.Now(),
	}
	s.control = naverblog.NewWorkControl()
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.current.RunID, rf.Keyword, cfg, s.control, s.done)

	logrus.WithField("run_id", s.current.RunID).Infof("启动运行，关键词: %s", rf.Keyword)
	snapshot := *s.current
	return &snapshot, nil
}

func (s *NaverBlogService) run(ctx context.Context, runID, keyword string, cfg naverblog.RunConfig,
	control *naverblog.WorkControl, done chan struct{}) {
	defer close(done)
	log := logrus.WithField("run_id", runID)

	var (
		summary naverblog.RunSummary
		err     error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("运行 panic: %v", r)
			}
		}()
		summary, err = s.runner.Run(ctx, keyword, cfg, control,
			func(n int) { s.update(runID, func(p *RunProgress) { p.Targets = n }) },
			func(sum naverblog.RunSummary) { s.update(runID, func(p *RunProgress) { p.Summary = sum }) },
		)
	}()

	s.update(runID, func(p *RunProgress) {
		now := time.Now()
		p.FinishedAt = &now
		p.Summary = summary
		switch {
		case err != nil:
			p.State = RunStateFailed
			p.Error = err.Error()
		case summary.Stopped || control.StopRequested():
			p.State = RunStateStopped
		default:
			p.State = RunStateCompleted
		}
	})

	if err != nil {
		log.WithError(err).Error("运行失败")
		return
	}
	log.Infof("运行结束: 成功 %d, 失败 %d", summary.Succeeded, summary.Failed)
}

func (s *NaverBlogService) update(runID string, fn func(p *RunProgress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.RunID != runID {
		return
	}
	fn(s.current)
}

// Progress 当前（或最近一次）运行的进度
func (s *NaverBlogService) Progress() (*RunProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNoRun
	}
	snapshot := *s.current
	return &snapshot, nil
}

// PauseRun 暂停：当前目标处理完后不再开始新目标，间隔计时也暂停
func (s *NaverBlogService) PauseRun() (*RunProgress, error) {
	return s.withActiveRun(func(c *naverblog.WorkControl, p *RunProgress) {
		c.Pause()
		if p.State == RunStateRunning {
			p.State = RunStatePaused
		}
	})
}

func (s *NaverBlogService) ResumeRun() (*RunProgress, error) {
	return s.withActiveRun(func(c *naverblog.WorkControl, p *RunProgress) {
		c.Resume()
		if p.State == RunStatePaused {
			p.State = RunStateRunning
		}
	})
}

// StopRun 请求停止，当前目标的动作在下一个检查点结束
func (s *NaverBlogService) StopRun() (*RunProgress, error) {
	return s.withActiveRun(func(c *naverblog.WorkControl, p *RunProgress) {
		c.Stop()
		p.State = RunStateStopping
	})
}

func (s *NaverBlogService) withActiveRun(fn func(c *naverblog.WorkControl, p *RunProgress)) (*RunProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || !s.current.Active() {
		return nil, ErrNoRun
	}
	fn(s.control, s.current)
	snapshot := *s.current
	return &snapshot, nil
}

// Shutdown 停止当前运行并等待其退出
func (s *NaverBlogService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	control, cancel, done := s.control, s.cancel, s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	control.Stop()
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// browserRunner 通过全局浏览器实例执行
type browserRunner struct {
	manager    *browser.Manager
	strategies naverblog.StrategyTable
}

func (r *browserRunner) CheckLogin(ctx context.Context) (bool, error) {
	page, release := r.manager.NewPageWithRelease()
	defer release()

	return naverblog.NewLogin(page).CheckLoginStatus(ctx)
}

func (r *browserRunner) Run(ctx context.Context, keyword string, cfg naverblog.RunConfig, control naverblog.Control,
	onTargets func(int), onProgress func(naverblog.RunSummary)) (naverblog.RunSummary, error) {
	b, release := r.manager.AcquireBrowser()
	defer release()

	pages := browser.NewPageSource(b)
	page := pages.NewPage()
	defer page.Close()

	loggedIn, err := naverblog.NewLogin(page).CheckLoginStatus(ctx)
	if err != nil {
		return naverblog.RunSummary{}, err
	}
	if !loggedIn {
		return naverblog.RunSummary{}, errors.New("未登录，请先登录 naver 并保存 cookies")
	}

	targets, err := naverblog.SearchTargets(ctx, page, keyword, cfg.MaxTargets)
	if err != nil {
		return naverblog.RunSummary{}, err
	}
	onTargets(len(targets))

	session := naverblog.NewRunSession(naverblog.NewRodSurface(pages), naverblog.WithStrategies(r.strategies))
	summary := session.Run(ctx, targets, cfg, control, onProgress)

	if err := browser.SavePageCookiesToPath(page, cookies.GetCookiesFilePath()); err != nil {
		logrus.WithError(err).Warn("保存 cookies 失败")
	}
	return summary, nil
}
