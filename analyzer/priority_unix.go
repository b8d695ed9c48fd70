//go:build !windows

package analyzer

import (
	"syscall"

	"github.com/sirupsen/logrus"
)

// setHighPriority requests a higher scheduling priority (lower niceness)
// for the caller, once before the parallel executor fans out; the Go
// analogue of the source's
// psutil.Process.nice(-10) on POSIX (schedulability_test_executor.py,
// _set_high_priority). Best-effort: permission errors are logged at debug
// level and swallowed rather than treated as fatal, since unprivileged
// workers commonly lack CAP_SYS_NICE.
func setHighPriority() {
	if err := syscall.Setpriority(syscall.PRIO_PROCESS, 0, -10); err != nil {
		logrus.Debugf("parallel worker: could not raise scheduling priority: %v", err)
	}
}
