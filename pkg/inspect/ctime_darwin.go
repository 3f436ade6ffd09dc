//go:build darwin

package inspect

import (
	"os"
	"syscall"
	"time"
)

func changeTime(st os.FileInfo) time.Time {
	if sys, ok := st.Sys().(*syscall.Stat_t); ok {
		return time.Unix(sys.Birthtimespec.Sec, sys.Birthtimespec.Nsec)
	}
	return st.ModTime()
}
