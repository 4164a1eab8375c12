package naverblog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	sectionSearchURL = "https://m.blog.naver.com/SectionSearch.naver"
	postViewURL      = "https://m.blog.naver.com/PostView.naver"
)

// 搜索输入框选择器，按优先级排列
var searchInputSelectors = []string{
	"input#query",
	`input[name="query"]`,
	`input[type="search"]`,
	`input[type="text"][placeholder*="검색"]`,
}

// 搜索结果中的文章链接
const postLinkSelector = `a[href*="logNo"], a[href*="PostView"], a[href*="blog.naver.com/"]`

// blog.naver.com/{blogId}/{logNo}
var postPathPattern = regexp.MustCompile(`^/([A-Za-z0-9_-]+)/(\d+)/?$`)

// SearchTargets 在博客搜索页按关键词搜索，返回去重后的文章目标
//
// 结果列表懒加载，按需滚动直到拿到 max 个或者滚动不再产生新链接。
func SearchTargets(ctx context.Context, page *rod.Page, keyword string, max int) ([]Target, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.New("搜索关键词不能为空")
	}
	if max <= 0 {
		max = DefaultMaxTargets
	}

	navCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	pp := page.Context(navCtx)
	if err := pp.Navigate(sectionSearchURL); err != nil {
		return nil, errors.Wrap(err, "打开搜索页失败")
	}
	if err := pp.WaitLoad(); err != nil {
		return nil, errors.Wrap(err, "等待搜索页加载失败")
	}

	searchInput, err := findSearchInput(pp)
	if err != nil {
		return nil, err
	}
	if err := searchInput.Input(keyword); err != nil {
		return nil, errors.Wrap(err, "输入搜索关键词失败")
	}
	if err := pp.KeyActions().Press(input.Enter).Do(); err != nil {
		return nil, errors.Wrap(err, "提交搜索失败")
	}
	logrus.Infof("搜索关键词: %s", keyword)

	sleepRandom(ctx, 2000, 3000)

	var targets []Target
	seen := 0
	for round := 0; round < 10; round++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		hrefs, err := postHrefs(page.Context(ctx))
		if err != nil {
			return nil, err
		}
		targets = collectPostLinks(hrefs, max)
		logrus.Debugf("第 %d 轮滚动，已收集 %d 篇文章", round+1, len(targets))
		if len(targets) >= max || (round > 0 && len(targets) == seen) {
			break
		}
		seen = len(targets)

		if _, err := page.Context(ctx).Eval(`() => window.scrollBy({top: window.innerHeight * 2, behavior: 'smooth'})`); err != nil {
			logrus.Debugf("滚动搜索结果失败: %v", err)
		}
		sleepRandom(ctx, 1500, 2500)
	}

	logrus.Infof("搜索到 %d 篇文章", len(targets))
	return targets, nil
}

func findSearchInput(page *rod.Page) (*rod.Element, error) {
	for _, selector := range searchInputSelectors {
		elements, err := page.Elements(selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if visible, _ := el.Visible(); visible {
				return el, nil
			}
		}
	}
	return nil, errors.New("未找到搜索输入框")
}

func postHrefs(page *rod.Page) ([]string, error) {
	elements, err := page.Elements(postLinkSelector)
	if err != nil {
		return nil, errors.Wrap(err, "获取文章链接失败")
	}
	hrefs := make([]string, 0, len(elements))
	for _, el := range elements {
		// 用 property 拿到解析后的绝对地址
		prop, err := el.Property("href")
		if err != nil {
			continue
		}
		if href := prop.Str(); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// collectPostLinks 从链接中提取文章，按 blogId/logNo 去重，保持出现顺序，最多 max 个
func collectPostLinks(hrefs []string, max int) []Target {
	seen := make(map[string]bool)
	var targets []Target
	for _, href := range hrefs {
		if max > 0 && len(targets) >= max {
			break
		}
		blogID, logNo, ok := parsePostURL(href)
		if !ok {
			continue
		}
		key := blogID + "/" + logNo
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, Target{
			Handle:        PostURL(blogID, logNo),
			SequenceIndex: len(targets),
		})
	}
	return targets
}

// parsePostURL 支持两种格式:
// PostView.naver?blogId=xxx&logNo=123 和 blog.naver.com/xxx/123
func parsePostURL(href string) (blogID, logNo string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", "", false
	}
	if !strings.HasSuffix(u.Hostname(), "blog.naver.com") {
		return "", "", false
	}

	q := u.Query()
	if blogID, logNo = q.Get("blogId"), q.Get("logNo"); blogID != "" && logNo != "" {
		return blogID, logNo, true
	}

	if m := postPathPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// PostURL 文章的移动版地址
func PostURL(blogID, logNo string) string {
	return fmt.Sprintf("%s?blogId=%s&logNo=%s", postViewURL, url.QueryEscape(blogID), url.QueryEscape(logNo))
}
