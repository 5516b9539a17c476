package classifier

import (
	"testing"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func clock(s string) time.Time {
	t, err := time.Parse(models.ClockLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func punchAt(s string) models.RawPunch {
	return models.RawPunch{EmployeeID: "E1", Timestamp: ts(s)}
}

func state(s string, d models.Direction) *models.LogState {
	return &models.LogState{LogTime: ts(s), Direction: d}
}

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name  string
		punch models.RawPunch
		prior *models.LogState
		want  bool
	}{
		{
			name:  "No prior state never dedupes",
			punch: punchAt("2025-05-01 10:00:00"),
			prior: nil,
			want:  false,
		},
		{
			name:  "Within window - 10 seconds apart",
			punch: punchAt("2025-05-01 10:00:10"),
			prior: state("2025-05-01 10:00:00", models.DirectionIn),
			want:  true,
		},
		{
			name:  "Exactly at window boundary",
			punch: punchAt("2025-05-01 10:00:30"),
			prior: state("2025-05-01 10:00:00", models.DirectionIn),
			want:  true,
		},
		{
			name:  "One second past window",
			punch: punchAt("2025-05-01 10:00:31"),
			prior: state("2025-05-01 10:00:00", models.DirectionIn),
			want:  false,
		},
		{
			name:  "Out-of-order older punch is dropped",
			punch: punchAt("2025-05-01 09:59:00"),
			prior: state("2025-05-01 10:00:00", models.DirectionIn),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(tt.punch, tt.prior); got != tt.want {
				t.Errorf("IsDuplicate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyDefaultAlternation(t *testing.T) {
	tests := []struct {
		name  string
		punch models.RawPunch
		prior *models.LogState
		want  models.Direction
	}{
		{
			name:  "First punch ever is in",
			punch: punchAt("2025-05-01 10:00:00"),
			prior: nil,
			want:  models.DirectionIn,
		},
		{
			name:  "Same day after in alternates to out",
			punch: punchAt("2025-05-01 10:05:00"),
			prior: state("2025-05-01 10:00:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "Same day after out alternates to in",
			punch: punchAt("2025-05-01 18:00:00"),
			prior: state("2025-05-01 12:00:00", models.DirectionOut),
			want:  models.DirectionIn,
		},
		{
			name:  "New calendar day restarts with in regardless of prior",
			punch: punchAt("2025-05-02 08:00:00"),
			prior: state("2025-05-01 08:00:00", models.DirectionIn),
			want:  models.DirectionIn,
		},
		{
			name:  "New day after out is still in",
			punch: punchAt("2025-05-02 08:00:00"),
			prior: state("2025-05-01 18:00:00", models.DirectionOut),
			want:  models.DirectionIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.punch, tt.prior, nil); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifySingleDayShift(t *testing.T) {
	cfg := &models.ShiftConfig{
		Start:         clock("09:00:00"),
		End:           clock("18:00:00"),
		SpansMidnight: false,
	}

	tests := []struct {
		name  string
		punch models.RawPunch
		prior *models.LogState
		want  models.Direction
	}{
		{
			name:  "Same day alternates like unconfigured",
			punch: punchAt("2025-05-01 17:30:00"),
			prior: state("2025-05-01 09:05:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "New day is in",
			punch: punchAt("2025-05-02 09:00:00"),
			prior: state("2025-05-01 09:05:00", models.DirectionIn),
			want:  models.DirectionIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.punch, tt.prior, cfg); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyMidnightSpanningShift(t *testing.T) {
	// Night shift 22:00 - 06:00 the next morning.
	cfg := &models.ShiftConfig{
		Start:         clock("22:00:00"),
		End:           clock("06:00:00"),
		SpansMidnight: true,
	}

	tests := []struct {
		name  string
		punch models.RawPunch
		prior *models.LogState
		want  models.Direction
	}{
		{
			name:  "Early-morning punch within same window alternates to out",
			punch: punchAt("2025-01-02 05:00:00"),
			prior: state("2025-01-01 23:00:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "Midday punch outside window starts a new shift",
			punch: punchAt("2025-01-02 12:00:00"),
			prior: state("2025-01-02 05:00:00", models.DirectionOut),
			want:  models.DirectionIn,
		},
		{
			name:  "Prior before midnight current after midnight alternates",
			punch: punchAt("2025-01-02 01:30:00"),
			prior: state("2025-01-01 22:30:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "Prior after midnight resolves previous-day window",
			punch: punchAt("2025-01-02 05:45:00"),
			prior: state("2025-01-02 02:00:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "Inclusive window end",
			punch: punchAt("2025-01-02 06:00:00"),
			prior: state("2025-01-01 23:00:00", models.DirectionIn),
			want:  models.DirectionOut,
		},
		{
			name:  "Next evening punch after window closes is in",
			punch: punchAt("2025-01-02 22:05:00"),
			prior: state("2025-01-02 05:00:00", models.DirectionOut),
			want:  models.DirectionIn,
		},
		{
			name:  "Prior outside any window defaults to in",
			punch: punchAt("2025-01-02 16:00:00"),
			prior: state("2025-01-02 12:00:00", models.DirectionIn),
			want:  models.DirectionIn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.punch, tt.prior, cfg); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveShiftWindow(t *testing.T) {
	cfg := &models.ShiftConfig{
		Start:         clock("22:00:00"),
		End:           clock("06:00:00"),
		SpansMidnight: true,
	}

	// Prior at 23:00 resolves [same-day 22:00, next-day 06:00].
	lo, hi := resolveShiftWindow(ts("2025-01-01 23:00:00"), cfg)
	if !lo.Equal(ts("2025-01-01 22:00:00")) || !hi.Equal(ts("2025-01-02 06:00:00")) {
		t.Errorf("resolveShiftWindow() = [%v, %v]", lo, hi)
	}

	// Prior at 02:00 falls before its own date's start; resolves the
	// previous day's window.
	lo, hi = resolveShiftWindow(ts("2025-01-02 02:00:00"), cfg)
	if !lo.Equal(ts("2025-01-01 22:00:00")) || !hi.Equal(ts("2025-01-02 06:00:00")) {
		t.Errorf("resolveShiftWindow() fallback = [%v, %v]", lo, hi)
	}
}
