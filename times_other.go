//go:build !linux && !darwin

package filehound

import (
	"os"
	"time"
)

// Platforms without a known stat payload layout do not expose atime/ctime
// portably; both collapse to the modification time.

func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}

func changeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
