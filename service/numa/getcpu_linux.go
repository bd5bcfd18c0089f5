//go:build linux

package numa

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// currentNode asks the kernel which node the calling thread runs on.  The
// answer is a hint: the goroutine may migrate right after the call.
func currentNode() (int, error) {
	var cpu, node uint32
	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return -1, fmt.Errorf("getcpu: %w", errno)
	}
	return int(node), nil
}
