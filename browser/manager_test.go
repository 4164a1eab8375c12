package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpzouying/headless_browser"
	"go.uber.org/goleak"
)

func newTestManager(created *int) *Manager {
	m := NewManager()
	m.newBrowser = func(bool, ...Option) *headless_browser.Browser {
		*created++
		return new(headless_browser.Browser)
	}
	return m
}

func TestAcquireBrowserIsExclusive(t *testing.T) {
	defer goleak.VerifyNone(t)

	var created int
	m := newTestManager(&created)

	first, release := m.AcquireBrowser()
	require.NotNil(t, first)

	acquired := make(chan struct{})
	go func() {
		b, release2 := m.AcquireBrowser()
		assert.Same(t, first, b, "复用同一个实例")
		release2()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("浏览器未释放时不应获取成功")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("释放后应该能获取到浏览器")
	}
	assert.Equal(t, 1, created)
}

func TestReleaseIsIdempotent(t *testing.T) {
	var created int
	m := newTestManager(&created)

	_, release := m.AcquireBrowser()
	release()
	release()

	_, release = m.AcquireBrowser()
	defer release()
	assert.True(t, m.inUse)
}
