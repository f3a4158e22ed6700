package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"timeclock.app/timeclock/core"
)

const (
	EventsFileName = "attendance.json"
	UsersFileName  = "users.json"
)

// jsonFile serializes all writes to one file through a mutex and
// replaces the file atomically (temp file, fsync, rename). A write
// has been flushed to stable storage before SaveAll returns.
type jsonFile struct {
	path string
	mu   sync.Mutex
}

func newJSONFile(path string) *jsonFile {
	return &jsonFile{path: path}
}

func (f *jsonFile) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (f *jsonFile) replace(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// EventFile is the JSON-file implementation of core.EventStore.
type EventFile struct {
	file *jsonFile
}

func NewEventFile(path string) *EventFile {
	return &EventFile{file: newJSONFile(path)}
}

func (s *EventFile) LoadAll() ([]core.AttendanceEvent, error) {
	data, err := s.file.read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.file.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []core.AttendanceEvent{}, nil
	}

	var events []core.AttendanceEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.file.path, err)
	}
	return events, nil
}

func (s *EventFile) SaveAll(events []core.AttendanceEvent) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return s.file.replace(data)
}

// UserFile is the JSON-file implementation of UserStore. The file
// holds an object keyed by username.
type UserFile struct {
	file *jsonFile
}

func NewUserFile(path string) *UserFile {
	return &UserFile{file: newJSONFile(path)}
}

func (s *UserFile) LoadAll() (map[string]User, error) {
	data, err := s.file.read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.file.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]User{}, nil
	}

	var users map[string]User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.file.path, err)
	}
	return users, nil
}

func (s *UserFile) SaveAll(users map[string]User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.file.replace(data)
}

// Verify checks that both data files under dir exist and hold valid
// JSON. The server refuses to start otherwise.
func Verify(dir string) error {
	for _, name := range []string{UsersFileName, EventsFileName} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("missing data file %s: %w", path, err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	}
	return nil
}
