package cookies

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Cookier cookies 的读写
type Cookier interface {
	LoadCookies() ([]byte, error)
	SaveCookies(data []byte) error
}

type localCookie struct {
	path string
}

func NewLoadCookie(path string) Cookier {
	if path == "" {
		panic("path is required")
	}

	return &localCookie{
		path: path,
	}
}

// LoadCookies 从文件中加载 cookies。
func (c *localCookie) LoadCookies() ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cookies from tmp file")
	}

	return data, nil
}

// SaveCookies 保存 cookies 到文件中。
func (c *localCookie) SaveCookies(data []byte) error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create cookies dir")
		}
	}
	return errors.Wrap(os.WriteFile(c.path, data, 0o600), "failed to write cookies")
}

// GetCookiesFilePath 获取 cookies 文件路径。
// 优先使用环境变量 COOKIES_PATH，否则放在系统临时目录。
func GetCookiesFilePath() string {
	if path := os.Getenv("COOKIES_PATH"); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "naverblog_cookies.json")
}

// GetInstanceCookiesFilePath 多账号时每个实例独立的 cookies 文件，
// 与主文件同目录，命名为 <name>_<instanceID><ext>。
func GetInstanceCookiesFilePath(instanceID string) string {
	base := GetCookiesFilePath()
	if instanceID == "" {
		return base
	}

	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)
	if name == "" {
		name = "cookies"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", name, instanceID, ext))
}

// ResetCookiesFiles 删除主 cookies 文件以及同目录下派生的实例 cookies 文件
func ResetCookiesFiles() error {
	basePath := GetCookiesFilePath()
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	name := strings.TrimSuffix(filepath.Base(basePath), ext)
	if name == "" {
		name = "cookies"
	}

	if err := os.Remove(basePath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove cookies file")
	}

	matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%s_*%s", name, ext)))
	if err != nil {
		return errors.Wrap(err, "failed to list instance cookies files")
	}
	for _, p := range matches {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove %s", p)
		}
	}
	return nil
}
