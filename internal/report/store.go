package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPersist wraps every failure to write the report.
var ErrPersist = errors.New("persist report")

// Marshal renders r as indented JSON with a trailing newline. Map keys are
// sorted, so an unchanged report always renders the same bytes.
func Marshal(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Store writes the report to a fixed path.
type Store struct {
	Path string
}

// Write replaces the file at s.Path with the current state of r. The new
// content is written to a sibling temp file first and renamed into place.
func (s *Store) Write(r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create dir %s: %v", ErrPersist, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrPersist, tmpName, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: chmod %s: %v", ErrPersist, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersist, tmpName, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrPersist, s.Path, err)
	}
	return nil
}

// Read loads a report previously written by Store.Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
