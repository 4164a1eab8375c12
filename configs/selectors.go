package configs

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// LoadSelectors 读取选择器覆盖文件，文件中出现的角色整体替换内置策略链
//
//	like_toggle:
//	  - name: my-like
//	    css: a.u_likeit_button
//	  - xpath: //button[contains(., '공감')]
func LoadSelectors(path string) (naverblog.StrategyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取选择器文件 %s 失败", path)
	}
	return ParseSelectors(data)
}

// ParseSelectors 解析选择器 YAML 并与内置策略表合并
func ParseSelectors(data []byte) (naverblog.StrategyTable, error) {
	var raw map[string][]naverblog.Strategy
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "解析选择器文件失败")
	}

	known := make(map[naverblog.Role]bool, len(naverblog.Roles))
	for _, r := range naverblog.Roles {
		known[r] = true
	}

	override := make(naverblog.StrategyTable, len(raw))
	for name, list := range raw {
		role := naverblog.Role(name)
		if !known[role] {
			return nil, errors.Errorf("未知的角色: %s", name)
		}
		if len(list) == 0 {
			return nil, errors.Errorf("角色 %s 至少需要一个策略", name)
		}
		for i, s := range list {
			if s.CSS == "" && s.XPath == "" {
				return nil, errors.Errorf("角色 %s 的第 %d 个策略缺少 css 或 xpath", name, i+1)
			}
			if s.Anchor != "" && !known[s.Anchor] {
				return nil, errors.Errorf("角色 %s 的锚点 %s 未知", name, s.Anchor)
			}
		}
		override[role] = list
	}

	return naverblog.DefaultStrategies().Merge(override), nil
}
