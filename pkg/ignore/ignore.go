package ignore

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName 是根目录下的忽略规则文件
const FileName = ".snapignore"

// Matcher 封装了忽略逻辑
// 它负责判断一个文件是否应该被排除在快照之外
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 初始化忽略匹配器
// rootPath: 被跟踪的根目录（用于查找 .snapignore 文件）
// extraRules: 来自配置的附加规则 (gitignore 语法)
//
// 没有 .snapignore 也没有附加规则时，所有文件都会被跟踪
func NewMatcher(rootPath string, extraRules ...string) (*Matcher, error) {
	ignoreFilePath := filepath.Join(rootPath, FileName)

	if _, errStat := os.Stat(ignoreFilePath); errStat == nil {
		// 情况 A: 用户定义了 .snapignore，文件内容和附加规则合并编译
		ignorer, err := gitignore.CompileIgnoreFileAndLines(ignoreFilePath, extraRules...)
		if err != nil {
			return nil, err
		}
		return &Matcher{ignorer: ignorer}, nil
	} else if !os.IsNotExist(errStat) {
		return nil, errStat
	}

	if len(extraRules) == 0 {
		return &Matcher{}, nil
	}
	// 情况 B: 仅编译附加规则
	return &Matcher{ignorer: gitignore.CompileIgnoreLines(extraRules...)}, nil
}

// Matches 检查给定的路径是否匹配忽略规则
// path: 相对于根目录的路径 (例如 "data/model.bin")
// 返回: true 表示应该忽略 (Skip), false 表示应该保留 (Keep)
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(filepath.ToSlash(path))
}
