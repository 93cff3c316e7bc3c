package probe

import (
	"path/filepath"

	"github.com/gzhole/infostealer/internal/logger"
)

// ServiceAccountTokenPath is mounted into every pod that automounts its
// service account token.
const ServiceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

type credentialProvider struct {
	name string
	// paths are relative to the home directory unless absolute.
	paths []string
}

var credentialTable = []credentialProvider{
	{"aws", []string{".aws", ".aws/credentials", ".aws/config"}},
	{"azure", []string{".azure", ".azure/credentials"}},
	{"gcp", []string{
		".config/gcloud",
		".config/gcloud/credentials.db",
		".config/gcloud/application_default_credentials.json",
	}},
	{"kubernetes", []string{".kube", ".kube/config", ServiceAccountTokenPath}},
	{"docker", []string{".docker", ".docker/config.json"}},
}

// Providers returns the provider names in probe order.
func Providers() []string {
	names := make([]string, len(credentialTable))
	for i, p := range credentialTable {
		names[i] = p.name
	}
	return names
}

// CredentialPaths expands the credential table against home.
func CredentialPaths(home string) map[string][]string {
	out := make(map[string][]string, len(credentialTable))
	for _, p := range credentialTable {
		for _, rel := range p.paths {
			out[p.name] = append(out[p.name], resolveHome(home, rel))
		}
	}
	return out
}

// CollectCredentials checks which well-known credential locations exist.
// Nothing is read.
func CollectCredentials(fsys FS, home string, log *logger.Narrator) CredentialPresence {
	log.Info("Checking for cloud provider credentials...")

	paths := CredentialPaths(home)
	result := make(CredentialPresence, len(credentialTable))
	for _, name := range Providers() {
		found := make(map[string]bool, len(paths[name]))
		for _, p := range paths[name] {
			found[p] = fsys.PathExists(p)
			if found[p] {
				log.Success("Found: %s", p)
			}
		}
		result[name] = found
	}
	return result
}

func resolveHome(home, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, filepath.FromSlash(p))
}
