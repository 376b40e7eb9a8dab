package testutil

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CallRecord is one request received by a fake.
type CallRecord struct {
	Method    string
	Path      string
	Query     url.Values
	Status    int
	Timestamp time.Time
}

// CallLogEntry represents a single call record in YAML format.
type CallLogEntry struct {
	Method    string `yaml:"method"`
	Path      string `yaml:"path"`
	Query     string `yaml:"query,omitempty"`
	Status    int    `yaml:"status"`
	Timestamp string `yaml:"timestamp"`
}

// CallLog wraps []CallLogEntry for YAML serialization.
type CallLog struct {
	Entries []CallLogEntry `yaml:"entries"`
}

// WriteCallLog writes records to a YAML file, which is handy to attach
// to a failing test run.
func WriteCallLog(path string, records []CallRecord) error {
	log := CallLog{Entries: make([]CallLogEntry, 0, len(records))}
	for _, r := range records {
		log.Entries = append(log.Entries, CallLogEntry{
			Method:    r.Method,
			Path:      r.Path,
			Query:     r.Query.Encode(),
			Status:    r.Status,
			Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		})
	}

	data, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling call log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing call log: %w", err)
	}
	return nil
}

// ReadCallLog reads a call log written by WriteCallLog.
func ReadCallLog(path string) (*CallLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading call log: %w", err)
	}
	var log CallLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parsing call log: %w", err)
	}
	return &log, nil
}
