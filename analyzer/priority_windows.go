//go:build windows

package analyzer

// setHighPriority is a no-op on windows; the source's equivalent
// (psutil.Process.nice(psutil.HIGH_PRIORITY_CLASS)) has no portable
// syscall.Setpriority analogue in the standard library.
func setHighPriority() {}
