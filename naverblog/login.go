package naverblog

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	naverHomeURL  = "https://m.naver.com"
	naverLoginURL = "https://nid.naver.com/nidlogin.login?mode=form&url=https%3A%2F%2Fm.blog.naver.com"
)

// 登录后 naver.com 域下会写入的会话 cookie
var sessionCookieNames = []string{"NID_AUT", "NID_SES"}

type LoginAction struct {
	page *rod.Page
}

func NewLogin(page *rod.Page) *LoginAction {
	return &LoginAction{page: page}
}

// CheckLoginStatus 通过会话 cookie 判断是否已登录
func (a *LoginAction) CheckLoginStatus(ctx context.Context) (bool, error) {
	navCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	pp := a.page.Context(navCtx)
	if err := pp.Navigate(naverHomeURL); err != nil {
		return false, errors.Wrap(err, "打开 naver 首页失败")
	}
	if err := pp.WaitLoad(); err != nil {
		return false, errors.Wrap(err, "等待 naver 首页加载失败")
	}
	return a.loggedIn()
}

// WaitForLogin 打开登录页，等待用户在浏览器中手动完成登录（含验证码/二次验证）
func (a *LoginAction) WaitForLogin(ctx context.Context) error {
	pp := a.page.Context(ctx)
	if err := pp.Navigate(naverLoginURL); err != nil {
		return errors.Wrap(err, "打开登录页失败")
	}
	logrus.Info("请在浏览器中完成 naver 登录...")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		ok, err := a.loggedIn()
		if err != nil {
			logrus.Debugf("检查登录状态失败: %v", err)
			continue
		}
		if ok {
			logrus.Info("登录成功")
			return nil
		}
	}
}

func (a *LoginAction) loggedIn() (bool, error) {
	cookies, err := a.page.Browser().GetCookies()
	if err != nil {
		return false, errors.Wrap(err, "读取 cookie 失败")
	}
	return hasSessionCookies(cookies), nil
}

// hasSessionCookies 所有会话 cookie 都存在且未过期
func hasSessionCookies(cookies []*proto.NetworkCookie) bool {
	now := time.Now()
	for _, name := range sessionCookieNames {
		found := false
		for _, c := range cookies {
			if c.Name != name || c.Value == "" {
				continue
			}
			// Expires 为 0 或负数表示会话 cookie
			if c.Expires > 0 && time.Unix(int64(c.Expires), 0).Before(now) {
				continue
			}
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}
