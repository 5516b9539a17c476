// Package state persists the worker's three durable records: the delivery
// checkpoint, the per-employee log states and the shift configuration
// cache. Each record is a small file under one state directory, replaced
// atomically on every write so a crash never leaves a half-written record.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// File names under the state directory.
const (
	checkpointFile = "last_processed_log_date.txt"
	logStatesFile  = "current_day_logs.json"
	shiftCacheFile = "employee_shift_data.json"
)

// Store reads and writes the persisted worker state.
type Store struct {
	dir string
}

// New opens a store rooted at dir, creating the directory when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadCheckpoint returns the persisted watermark. ok is false when no
// checkpoint has been written yet or the record is unreadable; the caller
// falls back to its configured start instant.
func (s *Store) LoadCheckpoint() (t time.Time, ok bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, checkpointFile))
	if err != nil {
		return time.Time{}, false
	}
	t, err = time.ParseInLocation(models.TimestampLayout, strings.TrimSpace(string(data)), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SaveCheckpoint replaces the persisted watermark.
func (s *Store) SaveCheckpoint(t time.Time) error {
	return s.replace(checkpointFile, []byte(t.Format(models.TimestampLayout)))
}

// logStateRecord is the on-disk shape of one employee entry. log_date is
// derived from log_time and kept for compatibility with existing state
// files.
type logStateRecord struct {
	LogTime   string           `json:"log_time"`
	Direction models.Direction `json:"checklog"`
	LogDate   string           `json:"log_date"`
}

// LoadLogStates returns the persisted per-employee states. It never fails:
// a missing or corrupt file yields an empty map. Entries whose timestamp
// does not parse are skipped.
func (s *Store) LoadLogStates() map[string]models.LogState {
	states := make(map[string]models.LogState)

	data, err := os.ReadFile(filepath.Join(s.dir, logStatesFile))
	if err != nil {
		return states
	}

	var records map[string]logStateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return states
	}

	for id, rec := range records {
		t, err := time.ParseInLocation(models.TimestampLayout, rec.LogTime, time.Local)
		if err != nil {
			continue
		}
		states[id] = models.LogState{LogTime: t, Direction: rec.Direction}
	}
	return states
}

// SaveLogStates replaces the persisted per-employee states.
func (s *Store) SaveLogStates(states map[string]models.LogState) error {
	records := make(map[string]logStateRecord, len(states))
	for id, st := range states {
		records[id] = logStateRecord{
			LogTime:   st.LogTime.Format(models.TimestampLayout),
			Direction: st.Direction,
			LogDate:   st.LogTime.Format(models.DateLayout),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal log states: %w", err)
	}
	return s.replace(logStatesFile, data)
}

// shiftCacheEnvelope matches the shift API response, so the cache file is
// the last full successful fetch.
type shiftCacheEnvelope struct {
	Success bool                          `json:"success"`
	Data    map[string]models.ShiftConfig `json:"data"`
}

// LoadShiftCache returns the cached shift map from the last successful
// refresh. It never fails; missing or corrupt cache yields an empty map.
func (s *Store) LoadShiftCache() map[string]models.ShiftConfig {
	data, err := os.ReadFile(filepath.Join(s.dir, shiftCacheFile))
	if err != nil {
		return map[string]models.ShiftConfig{}
	}

	var envelope shiftCacheEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil || !envelope.Success || envelope.Data == nil {
		return map[string]models.ShiftConfig{}
	}
	return envelope.Data
}

// SaveShiftCache replaces the cached shift map.
func (s *Store) SaveShiftCache(configs map[string]models.ShiftConfig) error {
	data, err := json.Marshal(shiftCacheEnvelope{Success: true, Data: configs})
	if err != nil {
		return fmt.Errorf("marshal shift cache: %w", err)
	}
	return s.replace(shiftCacheFile, data)
}

// replace writes data to name via a temp file and rename, so readers and
// crash recovery always see a complete record.
func (s *Store) replace(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
