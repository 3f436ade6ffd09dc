package hasher

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func TestHashReader_KnownValues(t *testing.T) {
	h := New(0)
	assert.Equal(t, DefaultChunkSize, h.ChunkSize())

	tests := []struct {
		input string
		want  string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"hello", "5d41402abc4b2a76b9719d911017c592"},
		{"world", "7d793037a0760186574b0282f2f435e7"},
	}

	for _, tt := range tests {
		d, err := h.HashReader(bytes.NewReader([]byte(tt.input)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.String())
		assert.True(t, d.IsValid())
	}
}

func TestHashFile_Determinism(t *testing.T) {
	tmpDir := t.TempDir()
	content := bytes.Repeat([]byte("snapshot "), 4000)

	p1 := writeFile(t, tmpDir, "a.bin", content)
	p2 := writeFile(t, tmpDir, "b.bin", content)

	h := New(DefaultChunkSize)
	d1, err := h.HashFile(p1)
	require.NoError(t, err)
	d2, err := h.HashFile(p2)
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "相同内容必须得到相同摘要")
}

func TestHashFile_SingleByteChange(t *testing.T) {
	tmpDir := t.TempDir()
	content := make([]byte, 50*1024)
	_, err := rand.Read(content)
	require.NoError(t, err)

	p1 := writeFile(t, tmpDir, "orig.bin", content)

	changed := bytes.Clone(content)
	changed[len(changed)/2] ^= 0x01
	p2 := writeFile(t, tmpDir, "changed.bin", changed)

	h := New(0)
	d1, err := h.HashFile(p1)
	require.NoError(t, err)
	d2, err := h.HashFile(p2)
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
}

func TestHashReader_ChunkSizeIndependent(t *testing.T) {
	content := make([]byte, 100*1024+7)
	_, err := rand.Read(content)
	require.NoError(t, err)

	want, err := New(DefaultChunkSize).HashReader(bytes.NewReader(content))
	require.NoError(t, err)

	for _, size := range []int{1, 13, 512, 64 * 1024, 1 << 20} {
		got, err := New(size).HashReader(bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size %d", size)
	}

	// 每次只返回 1 字节的 Reader
	got, err := New(DefaultChunkSize).HashReader(iotest.OneByteReader(bytes.NewReader(content)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHashReader_MidStreamError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := io.MultiReader(bytes.NewReader([]byte("partial data")), iotest.ErrReader(boom))

	d, err := New(4).HashReader(r)
	assert.ErrorIs(t, err, boom)
	assert.True(t, d.IsZero(), "出错时不能返回部分摘要")
}

func TestHashFile_Missing(t *testing.T) {
	_, err := New(0).HashFile(filepath.Join(t.TempDir(), "ghost.txt"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
