package inspect

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"
)

// BMP 的 DIB 头里宽高位于固定偏移 (little-endian uint32)
const (
	bmpWidthOffset  = 0x12
	bmpHeightOffset = 0x16
)

func imageSize(ext string, data []byte) (*ImageSize, error) {
	switch ext {
	case "svg":
		return svgSize(data)
	case "bmp":
		return bmpSize(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}

func bmpSize(data []byte) (*ImageSize, error) {
	if len(data) < bmpHeightOffset+4 {
		return nil, fmt.Errorf("bmp header too short: %d bytes", len(data))
	}
	w := binary.LittleEndian.Uint32(data[bmpWidthOffset:])
	h := binary.LittleEndian.Uint32(data[bmpHeightOffset:])
	// 高度为负表示自上而下存储
	return &ImageSize{Width: int(int32(w)), Height: abs(int(int32(h)))}, nil
}

// svgSize 读取根元素的 width/height 属性，缺失时退回 viewBox
func svgSize(data []byte) (*ImageSize, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no <svg> element found")
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return nil, fmt.Errorf("root element is <%s>, not <svg>", start.Name.Local)
		}

		var width, height, viewBox string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				width = attr.Value
			case "height":
				height = attr.Value
			case "viewBox":
				viewBox = attr.Value
			}
		}

		size := &ImageSize{Width: svgLength(width), Height: svgLength(height)}
		if (size.Width == 0 || size.Height == 0) && viewBox != "" {
			if f := strings.Fields(strings.ReplaceAll(viewBox, ",", " ")); len(f) == 4 {
				if size.Width == 0 {
					size.Width = svgLength(f[2])
				}
				if size.Height == 0 {
					size.Height = svgLength(f[3])
				}
			}
		}
		return size, nil
	}
}

// svgLength 解析 "120", "120px", "120.5" 之类的长度
func svgLength(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
