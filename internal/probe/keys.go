package probe

import (
	"path/filepath"
	"strings"

	"github.com/gzhole/infostealer/internal/logger"
)

// SystemSSHDir holds the host keys.
const SystemSSHDir = "/etc/ssh"

// CollectKeyMaterial lists the user's SSH directory and the host key files
// in SystemSSHDir. File contents are never read.
func CollectKeyMaterial(fsys FS, home string, log *logger.Narrator) KeyMaterial {
	log.Info("Checking for SSH keys...")

	km := KeyMaterial{Files: []string{}, EtcSSHFiles: []string{}}

	sshDir := filepath.Join(home, ".ssh")
	km.SSHDirExists = fsys.PathExists(sshDir)
	if km.SSHDirExists {
		if names, err := fsys.ListDir(sshDir); err == nil {
			km.Files = names
		}
		log.Success("Found SSH directory with files: %s", strings.Join(km.Files, ", "))
	}

	km.EtcSSHExists = fsys.PathExists(SystemSSHDir)
	if km.EtcSSHExists {
		if names, err := fsys.ListDir(SystemSSHDir); err == nil {
			for _, n := range names {
				if strings.Contains(n, "key") {
					km.EtcSSHFiles = append(km.EtcSSHFiles, n)
				}
			}
		}
	}
	return km
}
