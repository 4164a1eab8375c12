package multiaccount

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xpzouying/naverblog-mcp/browser"
	"github.com/xpzouying/naverblog-mcp/configs"
	"github.com/xpzouying/naverblog-mcp/cookies"
	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// DefaultLoginTimeout 未登录账号等待手动登录的时间
const DefaultLoginTimeout = 2 * time.Minute

// AccountResult 单个账号的运行结果
type AccountResult struct {
	AccountID string                `json:"account_id"`
	Targets   int                   `json:"targets"`
	Summary   *naverblog.RunSummary `json:"summary,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Options 多账号运行参数
type Options struct {
	// Accounts 账号标识，每个账号使用独立的 cookies 文件
	Accounts []string
	// Concurrency 同时运行的浏览器数量，<=0 表示全部同时运行
	Concurrency int
	Keyword     string
	Config      naverblog.RunConfig
	Strategies  naverblog.StrategyTable
	// Control 所有账号共享，停止/暂停对全部账号生效
	Control      naverblog.Control
	LoginTimeout time.Duration
	OnProgress   func(accountID string, summary naverblog.RunSummary)
}

// accountFunc 运行一个账号，测试时替换
type accountFunc func(ctx context.Context, accountID string, opts Options) (int, naverblog.RunSummary, error)

// Run 为每个账号启动独立浏览器，登录后按关键词搜索并执行互动。
// 单个账号失败不影响其他账号；所有账号都失败时返回错误。
func Run(ctx context.Context, opts Options) ([]*AccountResult, error) {
	return runAccounts(ctx, opts, runAccount)
}

func runAccounts(ctx context.Context, opts Options, fn accountFunc) ([]*AccountResult, error) {
	if len(opts.Accounts) == 0 {
		return nil, errors.New("至少需要一个账号")
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = DefaultLoginTimeout
	}

	results := make([]*AccountResult, len(opts.Accounts))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, id := range opts.Accounts {
		res := &AccountResult{AccountID: id}
		results[i] = res

		g.Go(func() error {
			log := logrus.WithField("instance", res.AccountID)
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("账号运行 panic: %v", r)
					res.Error = fmt.Sprintf("panic: %v", r)
				}
			}()

			targets, summary, err := fn(gctx, res.AccountID, opts)
			res.Targets = targets
			if err != nil {
				log.WithError(err).Warn("账号运行失败")
				res.Error = err.Error()
				// 账号之间互不影响，不向 errgroup 传播
				return nil
			}
			res.Summary = &summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, res := range results {
		if res.Summary != nil {
			return results, nil
		}
	}
	return results, errors.New("没有任何账号完成运行")
}

func runAccount(ctx context.Context, accountID string, opts Options) (int, naverblog.RunSummary, error) {
	log := logrus.WithField("instance", accountID)
	cookiePath := cookies.GetInstanceCookiesFilePath(accountID)
	log.WithField("cookies_path", cookiePath).Info("启动账号浏览器实例")

	b := browser.NewBrowser(configs.IsHeadless(),
		browser.WithBinPath(configs.GetBinPath()),
		browser.WithCookiesPath(cookiePath),
	)
	defer b.Close()

	pages := browser.NewPageSource(b)
	page := pages.NewPage()
	defer page.Close()

	login := naverblog.NewLogin(page)
	loggedIn, err := login.CheckLoginStatus(ctx)
	if err != nil {
		return 0, naverblog.RunSummary{}, errors.Wrap(err, "检查登录状态失败")
	}
	if !loggedIn {
		log.Info("未登录，等待手动登录")
		loginCtx, cancel := context.WithTimeout(ctx, opts.LoginTimeout)
		err := login.WaitForLogin(loginCtx)
		cancel()
		if err != nil {
			return 0, naverblog.RunSummary{}, errors.Wrap(err, "登录等待超时或被取消")
		}
	}
	if err := browser.SavePageCookiesToPath(page, cookiePath); err != nil {
		log.WithError(err).Warn("保存 cookies 失败")
	}

	targets, err := naverblog.SearchTargets(ctx, page, opts.Keyword, opts.Config.MaxTargets)
	if err != nil {
		return 0, naverblog.RunSummary{}, errors.Wrap(err, "搜索文章失败")
	}

	var sessionOpts []naverblog.Option
	if opts.Strategies != nil {
		sessionOpts = append(sessionOpts, naverblog.WithStrategies(opts.Strategies))
	}
	session := naverblog.NewRunSession(naverblog.NewRodSurface(pages), sessionOpts...)

	var onProgress func(naverblog.RunSummary)
	if opts.OnProgress != nil {
		onProgress = func(s naverblog.RunSummary) { opts.OnProgress(accountID, s) }
	}
	summary := session.Run(ctx, targets, opts.Config, opts.Control, onProgress)

	// 运行结束后再次保存 cookies，保证会话持久化
	if err := browser.SavePageCookiesToPath(page, cookiePath); err != nil {
		log.WithError(err).Warn("保存 cookies 失败")
	}
	return len(targets), summary, nil
}
