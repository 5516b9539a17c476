package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// FileTerminal replays punches from a JSON log file. It stands in for a
// live device during testing and backfills, re-reading the full file on
// every connect the way a device serves its full attendance log.
type FileTerminal struct {
	path string
}

// NewFileTerminal creates a replay source for the given punch log.
func NewFileTerminal(path string) *FileTerminal {
	return &FileTerminal{path: path}
}

// replayRecord is one punch in the log file. Timestamps may be RFC 3339 or
// the plain "2006-01-02 15:04:05" layout.
type replayRecord struct {
	EmployeeID string `json:"employee_id"`
	Timestamp  string `json:"timestamp"`
	PunchCode  int    `json:"punch_code"`
}

// Connect reads the punch log. A missing or unreadable file is a connect
// failure, reported like an unreachable device.
func (t *FileTerminal) Connect(ctx context.Context) (Connection, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("open punch log: %w", err)
	}

	var records []replayRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode punch log %s: %w", t.path, err)
	}

	punches := make([]models.RawPunch, 0, len(records))
	for i, rec := range records {
		ts, err := parseReplayTime(rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("punch log %s entry %d: %w", t.path, i, err)
		}
		punches = append(punches, models.RawPunch{
			EmployeeID: rec.EmployeeID,
			Timestamp:  ts,
			PunchCode:  rec.PunchCode,
		})
	}
	return &replayConn{punches: punches}, nil
}

func parseReplayTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.RFC3339, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(models.TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
	}
	return t, nil
}

type replayConn struct {
	punches []models.RawPunch
}

func (c *replayConn) PullAttendance(ctx context.Context) ([]models.RawPunch, error) {
	return c.punches, nil
}

func (c *replayConn) Close() error { return nil }
