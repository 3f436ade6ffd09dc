package disk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dirsnap/pkg/snapshot"
)

// Adapter 实现了 storage.Store 接口，快照保存在单个本地文件中
type Adapter struct {
	path   string // 比如: /home/user/project/snapshot.txt
	format snapshot.Format
}

// NewAdapter 创建一个新的磁盘存储适配器
func NewAdapter(path string, format snapshot.Format) (*Adapter, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = snapshot.FormatText
	}
	return &Adapter{path: abs, format: format}, nil
}

// Path 返回快照文件的绝对路径
func (s *Adapter) Path() string { return s.path }

func (s *Adapter) Load(ctx context.Context) (snapshot.Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// 还没有 commit 过: 空基线
		return snapshot.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	return snapshot.Decode(bufio.NewReader(f), s.format)
}

func (s *Adapter) Save(ctx context.Context, snap snapshot.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	// 原子写入 (Atomic Write)
	// 先写到同目录的临时文件，然后 Rename。
	// 这样保证要么是旧快照，要么是完整的新快照。
	tempFile, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if err := snapshot.Encode(tempFile, snap, s.format); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tempFile.Close(); err != nil { // 必须先关闭才能 Rename
		return err
	}
	if err := os.Chmod(tempFile.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), s.path)
}
