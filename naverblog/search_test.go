package naverblog

import (
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostURL(t *testing.T) {
	cases := []struct {
		href          string
		blogID, logNo string
		ok            bool
	}{
		{"https://m.blog.naver.com/PostView.naver?blogId=foodie&logNo=223344", "foodie", "223344", true},
		{"https://blog.naver.com/PostView.naver?logNo=1&blogId=a_b", "a_b", "1", true},
		{"https://blog.naver.com/travel-log/224455667", "travel-log", "224455667", true},
		{"https://m.blog.naver.com/travel/224455667/", "travel", "224455667", true},
		{"https://blog.naver.com/travel", "", "", false},
		{"https://m.blog.naver.com/SectionSearch.naver?query=x", "", "", false},
		{"https://cafe.naver.com/foo/123", "", "", false},
		{"::not a url", "", "", false},
	}
	for _, c := range cases {
		blogID, logNo, ok := parsePostURL(c.href)
		assert.Equal(t, c.ok, ok, c.href)
		assert.Equal(t, c.blogID, blogID, c.href)
		assert.Equal(t, c.logNo, logNo, c.href)
	}
}

func TestCollectPostLinks(t *testing.T) {
	hrefs := []string{
		"https://m.blog.naver.com/SectionSearch.naver",
		"https://blog.naver.com/alice/100",
		"https://m.blog.naver.com/PostView.naver?blogId=alice&logNo=100",
		"https://m.blog.naver.com/PostView.naver?blogId=bob&logNo=200",
		"https://blog.naver.com/carol/300",
	}

	targets := collectPostLinks(hrefs, 10)
	require.Len(t, targets, 3)
	assert.Equal(t, PostURL("alice", "100"), targets[0].Handle)
	assert.Equal(t, PostURL("bob", "200"), targets[1].Handle)
	for i, tg := range targets {
		assert.Equal(t, i, tg.SequenceIndex)
	}

	assert.Len(t, collectPostLinks(hrefs, 2), 2)
	assert.Empty(t, collectPostLinks(nil, 5))
}

func TestHasSessionCookies(t *testing.T) {
	future := proto.TimeSinceEpoch(time.Now().Add(time.Hour).Unix())
	past := proto.TimeSinceEpoch(time.Now().Add(-time.Hour).Unix())

	full := []*proto.NetworkCookie{
		{Name: "NID_AUT", Value: "a", Expires: future},
		{Name: "NID_SES", Value: "b", Expires: -1},
	}
	assert.True(t, hasSessionCookies(full))

	assert.False(t, hasSessionCookies(full[:1]))
	assert.False(t, hasSessionCookies(nil))

	expired := []*proto.NetworkCookie{
		{Name: "NID_AUT", Value: "a", Expires: past},
		{Name: "NID_SES", Value: "b"},
	}
	assert.False(t, hasSessionCookies(expired))
}
