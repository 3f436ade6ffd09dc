package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dirsnap/pkg/types"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog/log"
)

// Format 决定快照文件的编码方式
type Format string

const (
	FormatText Format = "text"
	FormatCBOR Format = "cbor"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format: %q", s)
	}
}

// Encode 按 f 写出快照
func Encode(w io.Writer, s Snapshot, f Format) error {
	if f == FormatCBOR {
		return EncodeCBOR(w, s)
	}
	return EncodeText(w, s)
}

// Decode 按 f 读取快照
func Decode(r io.Reader, f Format) (Snapshot, error) {
	if f == FormatCBOR {
		return DecodeCBOR(r)
	}
	return DecodeText(r)
}

// -----------------------------------------------------------------------------
// 文本格式: 每行一条 "<path>|<digest>\n"
// -----------------------------------------------------------------------------

// EncodeText 按路径排序写出，保证同一个快照的输出字节一致
func EncodeText(w io.Writer, s Snapshot) error {
	bw := bufio.NewWriter(w)
	for _, path := range s.Paths() {
		if strings.Contains(path, Delimiter) {
			// 这一行读回来会被跳过，等价于没有基线
			log.Warn().Str("path", path).Msg("path contains snapshot delimiter, entry will not load back")
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", path, Delimiter, s[path]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeText 解析文本快照
// 不是恰好两个字段的行被静默跳过
func DecodeText(r io.Reader) (Snapshot, error) {
	s := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	for sc.Scan() {
		parts := strings.Split(strings.TrimSpace(sc.Text()), Delimiter)
		if len(parts) != 2 {
			continue
		}
		d := types.Digest(parts[1])
		if !d.IsZero() && !d.IsValid() {
			log.Warn().Str("path", parts[0]).Str("digest", parts[1]).Msg("snapshot line has a malformed digest")
		}
		s[parts[0]] = d
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return s, nil
}

// -----------------------------------------------------------------------------
// CBOR 格式: 规范化编码的 map[path]digest
// -----------------------------------------------------------------------------

var encOptions = cbor.EncOptions{
	// 强制 Map Key 排序 (Canonical)，相同快照得到相同字节
	Sort:        cbor.SortCanonical,
	IndefLength: cbor.IndefLengthForbidden,
}

var em, _ = encOptions.EncMode()

var decOptions = cbor.DecOptions{
	MaxMapPairs:     1 << 24,
	MaxNestedLevels: 4,
	IndefLength:     cbor.IndefLengthForbidden,
	DupMapKey:       cbor.DupMapKeyEnforcedAPF,
}

var dm, _ = decOptions.DecMode()

func EncodeCBOR(w io.Writer, s Snapshot) error {
	data, err := em.Marshal(map[string]types.Digest(s))
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func DecodeCBOR(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	s := New()
	if len(data) == 0 {
		return s, nil
	}
	if err := dm.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupted snapshot: %w", err)
	}
	return s, nil
}
