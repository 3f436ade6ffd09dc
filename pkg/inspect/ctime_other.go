//go:build !linux && !darwin

package inspect

import (
	"os"
	"time"
)

func changeTime(st os.FileInfo) time.Time {
	return st.ModTime()
}
