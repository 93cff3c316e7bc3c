// Package exfil simulates the theft step of an infostealer. The bytes it
// sends are fresh random data; this package has no access to anything the
// probes collected.
package exfil

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/gzhole/infostealer/internal/logger"
	"github.com/gzhole/infostealer/internal/netclient"
	"github.com/gzhole/infostealer/internal/redact"
)

// PayloadSize is the number of random bytes sent when Simulator.Size is
// zero.
const PayloadSize = 1024

// Poster is the part of the network client the simulator needs.
type Poster interface {
	Post(ctx context.Context, url string, body []byte) (*netclient.Response, error)
}

// Attempt is the outcome recorded in the report.
type Attempt struct {
	Success     bool   `json:"success"`
	StatusCode  int    `json:"statusCode,omitempty"`
	Error       string `json:"error,omitempty"`
	State       string `json:"state"`
	BytesSent   int    `json:"bytesSent"`
	Destination string `json:"destination"`
}

type Simulator struct {
	Poster      Poster
	Destination string
	// Size is the payload length; zero means PayloadSize.
	Size int
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
	Log  *logger.Narrator
}

// Payload returns Size fresh random bytes.
func (s *Simulator) Payload() ([]byte, error) {
	r := s.Rand
	if r == nil {
		r = rand.Reader
	}
	size := s.Size
	if size <= 0 {
		size = PayloadSize
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("generate payload: %w", err)
	}
	return buf, nil
}

// Attempt sends one random payload to the destination. Failures are
// reported in the result, never returned.
func (s *Simulator) Attempt(ctx context.Context) Attempt {
	log := s.Log
	if log == nil {
		log = logger.Discard()
	}
	log.Info("Attempting exfiltration to %s...", redact.URL(s.Destination))
	log.Info("NOTE: Sending 1KB of random data, NOT the collected information")

	result := Attempt{Destination: s.Destination, State: netclient.Pending.String()}

	payload, err := s.Payload()
	if err != nil {
		result.State = netclient.Failed.String()
		result.Error = err.Error()
		log.Failure("Exfiltration attempt failed: %v", err)
		return result
	}

	resp, err := s.Poster.Post(ctx, s.Destination, payload)
	result.State = netclient.StateOf(err).String()
	if err != nil {
		result.Error = err.Error()
		log.Failure("Exfiltration attempt failed: %v", err)
		return result
	}

	result.Success = true
	result.StatusCode = resp.StatusCode
	result.BytesSent = len(payload)
	log.Success("Exfiltration attempt completed with status: %d", resp.StatusCode)
	return result
}
