package probe

import (
	"errors"
	"os"
	"time"
)

// fakeFS serves a fixed tree. Paths in denied exist but fail to read.
type fakeFS struct {
	exists   map[string]bool
	dirs     map[string][]string
	files    map[string]string
	denied   map[string]bool
	listDirs []string
	reads    []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		exists: map[string]bool{},
		dirs:   map[string][]string{},
		files:  map[string]string{},
		denied: map[string]bool{},
	}
}

func (f *fakeFS) addFile(path, content string) {
	f.exists[path] = true
	f.files[path] = content
}

func (f *fakeFS) addDir(path string, names ...string) {
	f.exists[path] = true
	f.dirs[path] = names
}

func (f *fakeFS) PathExists(path string) bool { return f.exists[path] }

func (f *fakeFS) ListDir(dir string) ([]string, error) {
	f.listDirs = append(f.listDirs, dir)
	names, ok := f.dirs[dir]
	if !ok {
		return nil, os.ErrNotExist
	}
	return names, nil
}

func (f *fakeFS) ReadFile(path string, limit int64) ([]byte, error) {
	f.reads = append(f.reads, path)
	if f.denied[path] {
		return nil, os.ErrPermission
	}
	content, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	if int64(len(content)) > limit {
		content = content[:limit]
	}
	return []byte(content), nil
}

type fakeSystem struct {
	hostname string
	fail     bool
	userErr  error
}

var errProbe = errors.New("probe failure")

func (s fakeSystem) Hostname() (string, error) {
	if s.fail {
		return "", errProbe
	}
	return s.hostname, nil
}

func (s fakeSystem) Kernel() (Kernel, error) {
	if s.fail {
		return Kernel{}, errProbe
	}
	return Kernel{Type: "Linux", Release: "6.1.0-test"}, nil
}

func (s fakeSystem) Uptime() (time.Duration, error) {
	if s.fail {
		return 0, errProbe
	}
	return 90 * time.Minute, nil
}

func (s fakeSystem) Memory() (uint64, uint64, error) {
	if s.fail {
		return 0, 0, errProbe
	}
	return 8 << 30, 2 << 30, nil
}

func (s fakeSystem) CPUs() ([]CPU, error) {
	if s.fail {
		return nil, errProbe
	}
	return []CPU{{Model: "Test CPU", Speed: 2400}, {Model: "Test CPU", Speed: 2400}}, nil
}

func (s fakeSystem) Interfaces() (map[string][]InterfaceAddress, error) {
	if s.fail {
		return nil, errProbe
	}
	return map[string][]InterfaceAddress{
		"lo": {{Address: "127.0.0.1", Netmask: "255.0.0.0", Family: "IPv4", Internal: true, CIDR: "127.0.0.1/8"}},
	}, nil
}

func (s fakeSystem) CurrentUser() (*UserInfo, error) {
	if s.userErr != nil {
		return nil, s.userErr
	}
	return &UserInfo{Username: "node", UID: "1000", GID: "1000", HomeDir: "/home/node"}, nil
}

func (s fakeSystem) RuntimeVersion() string { return "go1.23.4" }

func (s fakeSystem) Platform() (string, string) { return "linux", "amd64" }

type fakeProcess struct {
	idsOK bool
}

func (fakeProcess) Pid() int                    { return 42 }
func (fakeProcess) Ppid() int                   { return 1 }
func (fakeProcess) Args() []string              { return []string{"/app/node_modules/.bin/payload", "--quiet"} }
func (fakeProcess) Executable() (string, error) { return "", errProbe }
func (fakeProcess) Getwd() (string, error)      { return "/app", nil }

func (p fakeProcess) IDs() (int, int, []int, bool) {
	if !p.idsOK {
		return -1, -1, nil, false
	}
	return 1000, 1000, []int{1000, 27}, true
}
