package probe

import (
	"unicode/utf8"

	"github.com/gzhole/infostealer/internal/logger"
)

// MaxContentChars caps the content captured from an allow-listed file.
const MaxContentChars = 1000

// InterestingFilePaths are checked for existence in this order.
var InterestingFilePaths = []string{
	"/etc/passwd",
	"/etc/shadow",
	"/etc/hosts",
	"/etc/resolv.conf",
	"/proc/version",
	"/proc/cmdline",
	"/proc/mounts",
}

// contentAllowList are the only files whose content is captured.
var contentAllowList = map[string]bool{
	"/etc/hosts":       true,
	"/etc/resolv.conf": true,
	"/proc/version":    true,
}

// ContentAllowed reports whether CollectInterestingFiles may read path.
func ContentAllowed(path string) bool { return contentAllowList[path] }

// CollectInterestingFiles records existence of InterestingFilePaths and captures the
// first MaxContentChars characters of allow-listed files.
func CollectInterestingFiles(fsys FS, log *logger.Narrator) map[string]FileFinding {
	log.Info("Checking for interesting files...")

	results := make(map[string]FileFinding, len(InterestingFilePaths))
	for _, path := range InterestingFilePaths {
		f := FileFinding{Exists: fsys.PathExists(path)}
		if f.Exists && ContentAllowed(path) {
			// Four bytes per rune is the UTF-8 worst case.
			data, err := fsys.ReadFile(path, MaxContentChars*utf8.UTFMax)
			if err == nil {
				content := truncateChars(string(data), MaxContentChars)
				f.Content = &content
				f.Readable = true
			}
		}
		results[path] = f
	}
	return results
}

func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
