// Package probe holds the independent collectors that inspect one resource
// domain each. Probes read the system only through the interfaces below and
// never fail: a fault degrades the probe's own field and is narrated.
package probe

import (
	"errors"
	"io"
	"os"
	"os/user"
	"time"
)

// FS is the filesystem view used by the presence and file probes.
type FS interface {
	// PathExists reports whether path can be stat'ed. Any error means false.
	PathExists(path string) bool
	// ListDir returns the sorted names of the immediate entries of dir.
	ListDir(dir string) ([]string, error)
	// ReadFile reads at most limit bytes of path.
	ReadFile(path string, limit int64) ([]byte, error)
}

// System answers host and OS queries for the system profile.
type System interface {
	Hostname() (string, error)
	Kernel() (Kernel, error)
	Uptime() (time.Duration, error)
	Memory() (total, free uint64, err error)
	CPUs() ([]CPU, error)
	Interfaces() (map[string][]InterfaceAddress, error)
	CurrentUser() (*UserInfo, error)
	RuntimeVersion() string
	Platform() (goos, goarch string)
}

// Process exposes the identity of the current process.
type Process interface {
	Pid() int
	Ppid() int
	Args() []string
	Executable() (string, error)
	Getwd() (string, error)
	// IDs returns uid, gid and supplementary groups; ok is false where the
	// platform does not have them.
	IDs() (uid, gid int, groups []int, ok bool)
}

// Host bundles every capability a full run needs.
type Host interface {
	FS
	System
	Process
	HomeDir() string
	Environ() []string
}

type Kernel struct {
	Type    string
	Release string
}

var errUnsupported = errors.New("not supported on this platform")

// OSHost is the Host backed by the real operating system.
type OSHost struct{}

var _ Host = OSHost{}

func (OSHost) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSHost) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (OSHost) ReadFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

// HomeDir returns $HOME, or the home directory of the user database entry
// when $HOME is unset. It is empty only when both lookups fail.
func (OSHost) HomeDir() string {
	return resolveHomeDir(os.UserHomeDir, user.Current)
}

func resolveHomeDir(fromEnv func() (string, error), current func() (*user.User, error)) string {
	if home, err := fromEnv(); err == nil && home != "" {
		return home
	}
	if u, err := current(); err == nil {
		return u.HomeDir
	}
	return ""
}

func (OSHost) Environ() []string { return os.Environ() }

func (OSHost) Hostname() (string, error) { return os.Hostname() }

func (OSHost) Pid() int                    { return os.Getpid() }
func (OSHost) Ppid() int                   { return os.Getppid() }
func (OSHost) Args() []string              { return append([]string(nil), os.Args...) }
func (OSHost) Executable() (string, error) { return os.Executable() }
func (OSHost) Getwd() (string, error)      { return os.Getwd() }
