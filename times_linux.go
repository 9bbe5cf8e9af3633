//go:build linux

package filehound

import (
	"os"
	"syscall"
	"time"
)

// accessTime extracts atime from the stat payload when the provider exposes
// one (real filesystems do, memory-backed ones return nil from Sys).
func accessTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(st.Atim.Unix())
}

// changeTime extracts ctime from the stat payload, falling back to ModTime.
func changeTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(st.Ctim.Unix())
}
