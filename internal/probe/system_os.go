package probe

import (
	"bufio"
	"bytes"
	"net"
	"os/user"
	"runtime"
	"strconv"
	"strings"
)

func (OSHost) Platform() (string, string) { return runtime.GOOS, runtime.GOARCH }

func (OSHost) RuntimeVersion() string { return runtime.Version() }

func (OSHost) CurrentUser() (*UserInfo, error) {
	u, err := user.Current()
	if err != nil {
		return nil, err
	}
	return &UserInfo{
		Username: u.Username,
		UID:      u.Uid,
		GID:      u.Gid,
		HomeDir:  u.HomeDir,
	}, nil
}

func (OSHost) Interfaces() (map[string][]InterfaceAddress, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]InterfaceAddress, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		mac := iface.HardwareAddr.String()
		if mac == "" {
			mac = "00:00:00:00:00:00"
		}
		internal := iface.Flags&net.FlagLoopback != 0
		list := []InterfaceAddress{}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			family := "IPv6"
			if ipnet.IP.To4() != nil {
				family = "IPv4"
			}
			list = append(list, InterfaceAddress{
				Address:  ipnet.IP.String(),
				Netmask:  net.IP(ipnet.Mask).String(),
				Family:   family,
				MAC:      mac,
				Internal: internal,
				CIDR:     ipnet.String(),
			})
		}
		out[iface.Name] = list
	}
	return out, nil
}

// parseCPUInfo extracts model and MHz per logical CPU from /proc/cpuinfo.
func parseCPUInfo(data []byte) []CPU {
	var cpus []CPU
	var cur *CPU
	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		key, value, ok := strings.Cut(s.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "processor":
			cpus = append(cpus, CPU{})
			cur = &cpus[len(cpus)-1]
		case "model name", "Processor", "cpu model":
			if cur != nil && cur.Model == "" {
				cur.Model = value
			}
		case "cpu MHz":
			if cur != nil {
				if mhz, err := strconv.ParseFloat(value, 64); err == nil {
					cur.Speed = int(mhz)
				}
			}
		}
	}
	return cpus
}

func fallbackCPUs() []CPU {
	cpus := make([]CPU, runtime.NumCPU())
	for i := range cpus {
		cpus[i].Model = runtime.GOARCH
	}
	return cpus
}
