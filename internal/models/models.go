// Package models contains data structures for the application
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Direction is the classified side of a punch.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Opposite returns the alternated direction.
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// RawPunch is one scan event as reported by a terminal. The terminal's own
// punch code is unreliable and carried only for diagnostics; direction is
// derived by the classifier.
type RawPunch struct {
	EmployeeID string    `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
	PunchCode  int       `json:"punch_code"`
}

// LogState is the last accepted punch for one employee. Direction always
// reflects the most recently accepted (non-deduplicated) punch.
type LogState struct {
	LogTime   time.Time
	Direction Direction
}

// Shift field defaults substituted when the remote payload is missing or
// malformed.
const (
	DefaultShiftStart = "09:00:00"
	DefaultShiftEnd   = "23:59:59"
)

// Timestamp layouts shared between persisted state and delivery payloads.
const (
	// ClockLayout is the time-of-day layout used on the wire and in payloads.
	ClockLayout = "15:04:05"
	// DateLayout is the calendar-date layout of check_date fields.
	DateLayout = "2006-01-02"
	// TimestampLayout is the layout of persisted instants.
	TimestampLayout = "2006-01-02 15:04:05"
)

// ShiftConfig is one employee's shift window. Start and End carry only the
// clock component (zero date).
type ShiftConfig struct {
	Start         time.Time
	End           time.Time
	SpansMidnight bool
}

// shiftConfigWire mirrors the shift API field names.
type shiftConfigWire struct {
	Start         string          `json:"SHIFT_START_TIME"`
	End           string          `json:"SHIFT_END_TIME"`
	SpansMidnight json.RawMessage `json:"SHIFT_SPANS_MIDNIGHT"`
}

// UnmarshalJSON decodes a shift entry, substituting defaults for missing or
// unparsable fields. It never fails: a malformed entry degrades to the
// default single-day shift.
func (c *ShiftConfig) UnmarshalJSON(data []byte) error {
	var raw shiftConfigWire
	_ = json.Unmarshal(data, &raw)

	c.Start = parseClock(raw.Start, DefaultShiftStart)
	c.End = parseClock(raw.End, DefaultShiftEnd)
	c.SpansMidnight = parseFlexBool(raw.SpansMidnight)
	return nil
}

// MarshalJSON writes the entry back in the wire shape, so the persisted
// cache matches the remote response.
func (c ShiftConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(shiftConfigWire{
		Start:         c.Start.Format(ClockLayout),
		End:           c.End.Format(ClockLayout),
		SpansMidnight: boolRaw(c.SpansMidnight),
	})
}

func parseClock(s, fallback string) time.Time {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		t, _ = time.Parse(ClockLayout, fallback)
	}
	return t
}

// parseFlexBool tolerates the upstream's loose typing: true, "true", "1"
// and 1 all mean spanning; anything else does not.
func parseFlexBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.ToLower(strings.TrimSpace(s))
		return s == "true" || s == "1"
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	return false
}

func boolRaw(b bool) json.RawMessage {
	if b {
		return json.RawMessage("true")
	}
	return json.RawMessage("false")
}

// ClassifiedEvent is one directional attendance record ready for delivery.
type ClassifiedEvent struct {
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	BranchID   string    `json:"branch_id"`
	CheckDate  string    `json:"check_date"`
	CheckTime  string    `json:"check_time"`
	Direction  Direction `json:"checklog"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DeliveryOutcome is the result of submitting one batch.
type DeliveryOutcome int

const (
	// DeliveryFailed is a transport error or a non-200 response.
	DeliveryFailed DeliveryOutcome = iota
	// DeliveryCommitted is a 200 response with success=true.
	DeliveryCommitted
	// DeliverySoftRejected is a 200 response with success=false, the remote
	// side's duplicate rejection. Not a transport error, but the batch is
	// not delivered.
	DeliverySoftRejected
)

func (o DeliveryOutcome) String() string {
	switch o {
	case DeliveryCommitted:
		return "committed"
	case DeliverySoftRejected:
		return "soft_rejected"
	default:
		return "failed"
	}
}
