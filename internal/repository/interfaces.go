// Package repository defines the remote collaborator interfaces and their
// REST implementations, plus the in-process punch sources.
package repository

import (
	"context"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// ShiftRepository fetches the per-employee shift configuration map.
type ShiftRepository interface {
	// FetchShiftConfigs returns the full shift map for the configured
	// branch and company. Any failure means the caller should fall back to
	// its cached copy; partial results are never returned.
	FetchShiftConfigs(ctx context.Context) (map[string]models.ShiftConfig, error)
}

// DeliveryRepository submits classified event batches to the ingestion
// service.
type DeliveryRepository interface {
	// Deliver submits one batch. The returned error carries transport
	// context and is non-nil only when the outcome is DeliveryFailed.
	Deliver(ctx context.Context, batch []models.ClassifiedEvent) (models.DeliveryOutcome, error)
}

// Terminal is a source of raw punch events.
type Terminal interface {
	// Connect opens a session with the punch source. Connect failure is a
	// cycle-level error, not fatal to the process.
	Connect(ctx context.Context) (Connection, error)
}

// Connection is one open terminal session.
type Connection interface {
	// PullAttendance returns this cycle's punches in terminal-reported
	// order. The same punch may be served across cycles until the caller's
	// watermark passes it.
	PullAttendance(ctx context.Context) ([]models.RawPunch, error)
	Close() error
}

// Compacter is implemented by punch sources that can discard punches once
// the delivery watermark has passed them. The orchestrator compacts after
// a committed delivery; sources that re-read a full log each pull simply
// do not implement it.
type Compacter interface {
	CompactBefore(t time.Time)
}
