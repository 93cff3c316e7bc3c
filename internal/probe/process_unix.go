//go:build unix

package probe

import "golang.org/x/sys/unix"

func (OSHost) IDs() (int, int, []int, bool) {
	groups, err := unix.Getgroups()
	if err != nil {
		groups = nil
	}
	return unix.Getuid(), unix.Getgid(), groups, true
}
