//go:build !windows

package filesystem

import "os"

// IsPrivileged reports whether the process runs as root
func IsPrivileged() bool {
	return os.Geteuid() == 0
}
