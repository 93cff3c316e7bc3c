//go:build !linux

package probe

import (
	"runtime"
	"time"
)

func (OSHost) Kernel() (Kernel, error) {
	return Kernel{Type: runtime.GOOS}, nil
}

func (OSHost) Uptime() (time.Duration, error) { return 0, errUnsupported }

func (OSHost) Memory() (uint64, uint64, error) { return 0, 0, errUnsupported }

func (OSHost) CPUs() ([]CPU, error) { return fallbackCPUs(), nil }
