// Package handlers provides HTTP handlers for API endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
	"github.com/Palindrome-NT/attendance-logs-script/internal/obs"
)

// PunchSink receives punches pushed by device-side bridges.
type PunchSink interface {
	Append(punches ...models.RawPunch)
}

// PunchHandler accepts raw punches from terminal bridge agents and feeds
// them into the sync cycle's punch buffer.
type PunchHandler struct {
	sink PunchSink
}

// NewPunchHandler creates a new punch handler.
func NewPunchHandler(sink PunchSink) *PunchHandler {
	return &PunchHandler{sink: sink}
}

// HandlePunch processes one pushed punch.
func (h *PunchHandler) HandlePunch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var punch models.RawPunch
	if err := json.NewDecoder(r.Body).Decode(&punch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if punch.EmployeeID == "" || punch.Timestamp.IsZero() {
		http.Error(w, "Missing employee_id or timestamp", http.StatusBadRequest)
		return
	}

	h.sink.Append(punch)
	obs.Logger().Debug("punch received",
		"employee_id", punch.EmployeeID,
		"timestamp", punch.Timestamp.Format(models.TimestampLayout),
		"punch_code", punch.PunchCode)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
