// pkg/types/common.go
package types

import "encoding/hex"

// DigestSize 是 MD5 摘要的字节数 (128 bit)
const DigestSize = 16

// Digest 代表文件内容的摘要 (MD5 Hex String)
// 这是一个“值对象”，应当是不可变的。
type Digest string

func (d Digest) String() string { return string(d) }

func (d Digest) IsZero() bool { return d == "" }

// IsValid 检查长度和 Hex 字符
func (d Digest) IsValid() bool {
	if len(d) != DigestSize*2 {
		return false
	}
	_, err := hex.DecodeString(string(d))
	return err == nil
}
