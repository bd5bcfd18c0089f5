//go:build !linux

package numa

// currentNode reports node 0 on platforms without a numa syscall.
func currentNode() (int, error) {
	return 0, nil
}
