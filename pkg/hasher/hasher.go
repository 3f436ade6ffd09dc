package hasher

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"dirsnap/pkg/types"
)

// DefaultChunkSize 每次读取的块大小 (8KB)
// 只影响性能，不影响结果
const DefaultChunkSize = 8 * 1024

// Hasher 以固定大小的块流式读取文件并计算 MD5
// 无状态，可以在多个 goroutine 间共享
type Hasher struct {
	chunkSize int
}

func New(chunkSize int) *Hasher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Hasher{chunkSize: chunkSize}
}

func (h *Hasher) ChunkSize() int { return h.chunkSize }

// HashReader 逐块读取 r，把每一块折叠进 MD5 状态
// 读取中途出错时不返回部分摘要
func (h *Hasher) HashReader(r io.Reader) (types.Digest, error) {
	state := md5.New()
	buf := make([]byte, h.chunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			state.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return types.Digest(hex.EncodeToString(state.Sum(nil))), nil
}

// HashFile 计算文件内容的摘要
func (h *Hasher) HashFile(path string) (types.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := h.HashReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d, nil
}
