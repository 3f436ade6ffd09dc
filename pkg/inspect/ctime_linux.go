//go:build linux

package inspect

import (
	"os"
	"syscall"
	"time"
)

func changeTime(st os.FileInfo) time.Time {
	if sys, ok := st.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(sys.Ctim.Sec), int64(sys.Ctim.Nsec))
	}
	return st.ModTime()
}
