package configs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xpzouying/naverblog-mcp/naverblog"
)

// RunFile 运行配置文件（YAML）
type RunFile struct {
	Keyword      string   `yaml:"keyword" json:"keyword"`
	Actions      []string `yaml:"actions" json:"actions"`
	MutualOnly   bool     `yaml:"mutual_only" json:"mutual_only"`
	MaxTargets   int      `yaml:"max_targets" json:"max_targets"`
	DelaySeconds *float64 `yaml:"delay_seconds" json:"delay_seconds,omitempty"`

	Comments             []string `yaml:"comments" json:"comments,omitempty"`
	CommentsFile         string   `yaml:"comments_file" json:"comments_file,omitempty"`
	NeighborMessages     []string `yaml:"neighbor_messages" json:"neighbor_messages,omitempty"`
	NeighborMessagesFile string   `yaml:"neighbor_messages_file" json:"neighbor_messages_file,omitempty"`
	SelectorsFile        string   `yaml:"selectors_file" json:"selectors_file,omitempty"`

	// baseDir 相对路径的基准目录（配置文件所在目录）
	baseDir string
}

// LoadRunFile 读取运行配置文件，文件中的相对路径以配置文件所在目录为准
func LoadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取运行配置 %s 失败", path)
	}

	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, errors.Wrapf(err, "解析运行配置 %s 失败", path)
	}
	rf.baseDir = filepath.Dir(path)
	return &rf, nil
}

// ToRunConfig 转换为引擎配置：补默认值、读取文本池文件、校验
func (rf *RunFile) ToRunConfig() (naverblog.RunConfig, error) {
	cfg := naverblog.RunConfig{
		MutualOnly:   rf.MutualOnly,
		MaxTargets:   rf.MaxTargets,
		DelaySeconds: naverblog.DefaultDelaySeconds,
	}
	if cfg.MaxTargets == 0 {
		cfg.MaxTargets = naverblog.DefaultMaxTargets
	}
	if rf.DelaySeconds != nil {
		cfg.DelaySeconds = *rf.DelaySeconds
	}

	for _, a := range rf.Actions {
		kind, err := naverblog.ParseActionKind(a)
		if err != nil {
			return naverblog.RunConfig{}, err
		}
		cfg.Actions = append(cfg.Actions, kind)
	}

	comments, err := rf.pool(rf.Comments, rf.CommentsFile)
	if err != nil {
		return naverblog.RunConfig{}, err
	}
	cfg.CommentPool = comments

	messages, err := rf.pool(rf.NeighborMessages, rf.NeighborMessagesFile)
	if err != nil {
		return naverblog.RunConfig{}, err
	}
	cfg.NeighborMessagePool = messages

	if err := cfg.Validate(); err != nil {
		return naverblog.RunConfig{}, errors.Wrap(err, "运行配置无效")
	}
	return cfg, nil
}

// Strategies 内置策略表，配置了 selectors_file 时与覆盖文件合并
func (rf *RunFile) Strategies() (naverblog.StrategyTable, error) {
	if rf.SelectorsFile == "" {
		return naverblog.DefaultStrategies(), nil
	}
	return LoadSelectors(rf.resolve(rf.SelectorsFile))
}

func (rf *RunFile) pool(inline []string, file string) ([]string, error) {
	out := naverblog.NormalizePool(inline)
	if file == "" {
		return out, nil
	}
	lines, err := LoadPoolFile(rf.resolve(file))
	if err != nil {
		return nil, err
	}
	return append(out, lines...), nil
}

func (rf *RunFile) resolve(path string) string {
	if filepath.IsAbs(path) || rf.baseDir == "" {
		return path
	}
	return filepath.Join(rf.baseDir, path)
}
