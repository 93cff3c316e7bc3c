//go:build linux

package probe

import (
	"time"

	"golang.org/x/sys/unix"
)

const cpuInfoPath = "/proc/cpuinfo"

func (OSHost) Kernel() (Kernel, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return Kernel{}, err
	}
	return Kernel{
		Type:    unix.ByteSliceToString(uts.Sysname[:]),
		Release: unix.ByteSliceToString(uts.Release[:]),
	}, nil
}

func (OSHost) Uptime() (time.Duration, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return time.Duration(info.Uptime) * time.Second, nil
}

func (OSHost) Memory() (uint64, uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0, err
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return uint64(info.Totalram) * unit, uint64(info.Freeram) * unit, nil
}

func (h OSHost) CPUs() ([]CPU, error) {
	data, err := h.ReadFile(cpuInfoPath, 1<<20)
	if err != nil {
		return fallbackCPUs(), nil
	}
	if cpus := parseCPUInfo(data); len(cpus) > 0 {
		return cpus, nil
	}
	return fallbackCPUs(), nil
}
