package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/gzhole/infostealer/internal/redact"
)

// Event is one line of the run journal.
type Event struct {
	Timestamp string `json:"timestamp"`
	RunID     string `json:"run_id,omitempty"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

// Journal appends narration events as JSON lines. Messages are redacted
// before they reach disk.
type Journal struct {
	file *os.File
	mu   sync.Mutex
}

func NewJournal(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	return &Journal{file: file}, nil
}

func (j *Journal) Log(event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	event.Message = redact.Redact(event.Message)
	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = j.file.Write(data)
	return err
}

func (j *Journal) Close() error {
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

// ReadJournal returns every event in the journal at path. A missing file
// yields no events; malformed lines are skipped.
func ReadJournal(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}
