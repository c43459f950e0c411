//go:build !unix

package entry

import (
	"os"
	"time"
)

// deviceInode has no portable implementation outside unix and reports
// (0, 0) for every entry. On these platforms same_file_system never
// prunes, and a followed symlink nested under another followed symlink is
// reported as a loop.
func deviceInode(os.FileInfo) (dev, ino uint64) { return 0, 0 }

// birthTime has no portable implementation outside unix.
func birthTime(os.FileInfo) (time.Time, bool) { return time.Time{}, false }

// accessTime has no portable implementation outside unix.
func accessTime(os.FileInfo) (time.Time, bool) { return time.Time{}, false }
