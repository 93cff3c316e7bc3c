package probe

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/gzhole/infostealer/internal/logger"
)

// CollectSystemProfile collects host, OS and runtime facts. Every query degrades
// independently; a failed user lookup leaves UserInfo nil.
func CollectSystemProfile(sys System, log *logger.Narrator) SystemProfile {
	log.Info("Collecting OS information...")

	goos, goarch := sys.Platform()
	p := SystemProfile{
		Platform:          goos,
		Type:              goos,
		Arch:              goarch,
		CPUs:              []CPU{},
		NetworkInterfaces: map[string][]InterfaceAddress{},
		RuntimeVersion:    ParseRuntimeVersion(sys.RuntimeVersion()),
	}

	if name, err := sys.Hostname(); err == nil {
		p.Hostname = name
	} else {
		log.Failure("Hostname lookup failed: %v", err)
	}
	if k, err := sys.Kernel(); err == nil {
		if k.Type != "" {
			p.Type = k.Type
		}
		p.Release = k.Release
	}
	if up, err := sys.Uptime(); err == nil {
		p.Uptime = int64(up.Seconds())
	}
	if total, free, err := sys.Memory(); err == nil {
		p.TotalMemory, p.FreeMemory = total, free
	}
	if cpus, err := sys.CPUs(); err == nil && cpus != nil {
		p.CPUs = cpus
	}
	if ifaces, err := sys.Interfaces(); err == nil && ifaces != nil {
		p.NetworkInterfaces = ifaces
	} else if err != nil {
		log.Failure("Network interface lookup failed: %v", err)
	}
	if u, err := sys.CurrentUser(); err == nil {
		p.UserInfo = u
	}
	return p
}

// ParseRuntimeVersion turns a Go version string such as "go1.22.3" or
// "go1.23rc1" into its numeric triple.
func ParseRuntimeVersion(raw string) RuntimeVersion {
	rv := RuntimeVersion{Raw: raw}

	v := strings.TrimPrefix(raw, "go")
	if i := strings.IndexByte(v, ' '); i >= 0 {
		v = v[:i]
	}
	core, pre := v, ""
	if i := strings.IndexAny(v, "abr"); i > 0 {
		core, pre = v[:i], "-"+v[i:]
	}
	// Go names x.y.0 releases before 1.21 and all pre-releases "x.y".
	if strings.Count(core, ".") == 1 {
		core += ".0"
	}
	v = "v" + core + pre
	if !semver.IsValid(v) {
		return rv
	}

	canonical := semver.Canonical(v)
	parts := strings.Split(strings.TrimPrefix(strings.TrimSuffix(canonical, semver.Prerelease(canonical)), "v"), ".")
	if len(parts) != 3 {
		return rv
	}
	rv.Major, _ = strconv.Atoi(parts[0])
	rv.Minor, _ = strconv.Atoi(parts[1])
	rv.Patch, _ = strconv.Atoi(parts[2])
	return rv
}
