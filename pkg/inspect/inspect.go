package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"github.com/rs/zerolog/log"
)

var ErrFileNotFound = errors.New("file does not exist")

// TextStats 对应 .txt 文件
type TextStats struct {
	Lines int
	Words int
	Chars int
}

// ImageSize 是图片中记录的宽高
type ImageSize struct {
	Width  int
	Height int
}

// SourceStats 对应源代码文件
type SourceStats struct {
	Language string
	Lines    int
	Classes  int // "class" 关键字出现次数
}

// Report 是单个文件的 info 结果
type Report struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time

	Text   *TextStats
	Image  *ImageSize
	Source *SourceStats
}

// 原始工具只认这几个扩展名，其余源文件交给 go-enry 判断
var (
	textExts   = map[string]bool{"txt": true}
	imageExts  = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "svg": true, "bmp": true}
	sourceExts = map[string]bool{"cs": true, "java": true, "py": true}
)

// Info 生成 root/name 的报告
func Info(root, name string) (*Report, error) {
	path := filepath.Join(root, name)

	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", name)
	}

	r := &Report{
		Name:      name,
		Path:      path,
		Size:      st.Size(),
		CreatedAt: changeTime(st),
		UpdatedAt: st.ModTime(),
	}

	ext := Ext(name)
	isText := textExts[ext]
	isImage := imageExts[ext]
	lang, isSource := sourceLanguage(name, ext)

	if !isText && !isImage && !isSource {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if isText {
		r.Text = textStats(data)
	}
	if isImage {
		// 无法解析的图片仍然输出基本信息，只是没有尺寸
		size, err := imageSize(ext, data)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("failed to read image size")
		} else {
			r.Image = size
		}
	}
	if isSource {
		r.Source = &SourceStats{
			Language: lang,
			Lines:    countLines(data),
			Classes:  bytes.Count(data, []byte("class")),
		}
	}
	return r, nil
}

// Ext 返回小写且不带点的扩展名
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func sourceLanguage(name, ext string) (string, bool) {
	lang, _ := enry.GetLanguageByExtension(name)
	if sourceExts[ext] {
		return lang, true
	}
	if lang == "" || textExts[ext] || imageExts[ext] {
		return "", false
	}
	return lang, enry.GetLanguageType(lang) == enry.Programming
}

func textStats(data []byte) *TextStats {
	return &TextStats{
		Lines: countLines(data),
		Words: len(strings.Fields(string(data))),
		Chars: utf8.RuneCount(data),
	}
}

// countLines 最后一行没有换行符也算一行
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
