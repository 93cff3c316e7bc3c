package probe

// SystemProfile describes the host, the OS and the Go runtime.
type SystemProfile struct {
	Hostname          string                        `json:"hostname"`
	Platform          string                        `json:"platform"`
	Type              string                        `json:"type"`
	Release           string                        `json:"release"`
	Arch              string                        `json:"arch"`
	Uptime            int64                         `json:"uptime"`
	TotalMemory       uint64                        `json:"totalMemory"`
	FreeMemory        uint64                        `json:"freeMemory"`
	CPUs              []CPU                         `json:"cpus"`
	NetworkInterfaces map[string][]InterfaceAddress `json:"networkInterfaces"`
	RuntimeVersion    RuntimeVersion                `json:"runtimeVersion"`
	UserInfo          *UserInfo                     `json:"userInfo"`
}

type CPU struct {
	Model string `json:"model"`
	// Speed is in MHz.
	Speed int `json:"speed"`
}

type InterfaceAddress struct {
	Address  string `json:"address"`
	Netmask  string `json:"netmask"`
	Family   string `json:"family"`
	MAC      string `json:"mac"`
	Internal bool   `json:"internal"`
	CIDR     string `json:"cidr"`
}

// RuntimeVersion is the version triple of the Go runtime that built the
// payload. Raw is always set; the numbers are zero when Raw is not a
// release version.
type RuntimeVersion struct {
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Patch int    `json:"patch"`
	Raw   string `json:"raw"`
}

type UserInfo struct {
	Username string `json:"username"`
	UID      string `json:"uid"`
	GID      string `json:"gid"`
	HomeDir  string `json:"homedir"`
}

// KeyMaterial records SSH directory presence and file names. Contents are
// never read.
type KeyMaterial struct {
	SSHDirExists bool     `json:"sshDirExists"`
	Files        []string `json:"files"`
	EtcSSHExists bool     `json:"etcSshExists"`
	EtcSSHFiles  []string `json:"etcSshFiles"`
}

// ProcessContext describes the running payload. UID, GID and Groups are nil
// on platforms that do not expose them.
type ProcessContext struct {
	PID      int      `json:"pid"`
	PPID     int      `json:"ppid"`
	Argv     []string `json:"argv"`
	ExecPath string   `json:"execPath"`
	Cwd      string   `json:"cwd"`
	UID      *int     `json:"uid"`
	GID      *int     `json:"gid"`
	Groups   []int    `json:"groups"`
}

type FileFinding struct {
	Exists   bool    `json:"exists"`
	Readable bool    `json:"readable"`
	Content  *string `json:"content"`
}

// CredentialPresence maps provider → path → exists.
type CredentialPresence map[string]map[string]bool
