// Package stealer runs one simulated infostealer pass: collect, write,
// pretend to exfiltrate, write again.
package stealer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gzhole/infostealer/internal/config"
	"github.com/gzhole/infostealer/internal/exfil"
	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/probe"
	"github.com/gzhole/infostealer/internal/redact"
	"github.com/gzhole/infostealer/internal/report"
)

// ErrFatal wraps a panic recovered during a run.
var ErrFatal = errors.New("fatal error")

// Client performs the two network calls of a run.
type Client interface {
	probe.Getter
	exfil.Poster
}

// Writer persists the report.
type Writer interface {
	Write(r *report.Report) error
}

type Runner struct {
	Config *config.Config
	Host   probe.Host
	Client Client
	Store  Writer
	Log    *logger.Narrator

	// Now defaults to time.Now.
	Now func() time.Time
	// RunID defaults to a random UUID.
	RunID string
}

// Run executes the full sequence and returns the final report. The only
// errors are persistence failures and recovered panics; probe and network
// failures are recorded in the report instead.
func (r *Runner) Run(ctx context.Context) (rep *report.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			rep = nil
			err = fmt.Errorf("%w: %v", ErrFatal, p)
		}
	}()

	log := r.Log
	if log == nil {
		log = logger.Discard()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	started := now()

	r.banner(log)

	findings := report.Findings{
		ExternalAddress: probe.FetchExternalAddress(ctx, r.Client, r.Config.IPHarvesterURL, log),
		SystemProfile:   probe.CollectSystemProfile(r.Host, log),
		Environment:     probe.CollectEnvironment(r.Host.Environ(), log),
	}
	home := r.Host.HomeDir()
	findings.CredentialPresence = probe.CollectCredentials(r.Host, home, log)
	findings.KeyMaterialPresence = probe.CollectKeyMaterial(r.Host, home, log)
	findings.ProcessContext = probe.CollectProcessContext(r.Host, log)
	findings.InterestingFiles = probe.CollectInterestingFiles(r.Host, log)

	rep = report.Aggregate(started, runID, findings)

	log.Plain("")
	log.Info("Saving collected information to %s...", r.Config.OutputPath)
	if err := r.Store.Write(rep); err != nil {
		return nil, err
	}
	log.Success("Information saved successfully")

	log.Plain("")
	sim := &exfil.Simulator{
		Poster:      r.Client,
		Destination: r.Config.ExfilURL,
		Size:        r.Config.PayloadSize,
		Log:         log,
	}
	rep.RecordExfiltration(sim.Attempt(ctx))

	if err := r.Store.Write(rep); err != nil {
		return nil, err
	}

	log.Plain("")
	log.Rule()
	log.Success("Infostealer simulation complete")
	log.Rule()
	return rep, nil
}

func (r *Runner) banner(log *logger.Narrator) {
	exe, err := r.Host.Executable()
	if err != nil {
		exe = "unknown"
	}
	log.Rule()
	log.Plain("Stratus Red Team - Simulated Infostealer")
	log.Plain("Running from: " + exe)
	log.Rule()
	log.Info("EXFIL_URL: %s", redact.URL(r.Config.ExfilURL))
	log.Info("IP_HARVESTER_URL: %s", redact.URL(r.Config.IPHarvesterURL))
	log.Plain("")
}
