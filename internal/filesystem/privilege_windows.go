//go:build windows

package filesystem

// IsPrivileged always reports false on Windows; elevation is not detected
func IsPrivileged() bool {
	return false
}
