package configs

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"

	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// LoadPoolFile 读取评论/留言池文件：每行一条，去掉首尾空白，忽略空行。
// 图片、压缩包等二进制文件直接拒绝，避免把乱码发到评论里。
func LoadPoolFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取文本池文件 %s 失败", path)
	}

	head := data
	if len(head) > 261 {
		head = head[:261]
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return nil, errors.Errorf("文本池文件 %s 是 %s 文件，需要纯文本", path, kind.MIME.Value)
	}
	if !utf8.Valid(data) {
		return nil, errors.Errorf("文本池文件 %s 不是 UTF-8 编码", path)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	return naverblog.NormalizePool(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")), nil
}
