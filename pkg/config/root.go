package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultMarker = "*.csproj"
	DefaultSubdir = "test"
)

var ErrMarkerNotFound = errors.New("root marker not found in any ancestor directory")

// FindRoot 从 start 开始逐级向上，找到第一个包含匹配 marker 的条目的目录，
// 返回 <该目录>/<subdir>
func FindRoot(start, marker, subdir string) (string, error) {
	if !doublestar.ValidatePattern(marker) {
		return "", fmt.Errorf("invalid root marker pattern: %q", marker)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		found, err := containsMarker(dir, marker)
		if err != nil {
			return "", err
		}
		if found {
			return filepath.Join(dir, subdir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s (from %s)", ErrMarkerNotFound, marker, start)
		}
		dir = parent
	}
}

func containsMarker(dir, marker string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// 无权限读取的祖先目录直接跳过
		if errors.Is(err, os.ErrPermission) {
			return false, nil
		}
		return false, err
	}
	for _, e := range entries {
		ok, err := doublestar.Match(marker, e.Name())
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
