package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/classifier"
	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
	"github.com/Palindrome-NT/attendance-logs-script/internal/obs"
	"github.com/Palindrome-NT/attendance-logs-script/internal/repository"
)

// CycleNotifier delivers operator alerts. Implemented by the Telegram bot.
type CycleNotifier interface {
	SendNotification(message string)
}

// Options carries the identifiers stamped on every delivered event and the
// instant processing starts from when no checkpoint exists yet.
type Options struct {
	CompanyID  string
	BranchID   string
	DeviceName string
	StartFrom  time.Time
}

// SyncService runs one sync cycle at a time: pull raw punches, filter by
// the checkpoint watermark, deduplicate, classify, deliver, and advance the
// watermark only after a confirmed delivery.
type SyncService struct {
	terminal repository.Terminal
	shifts   *ShiftConfigStore
	delivery repository.DeliveryRepository
	store    StateStore
	notifier CycleNotifier
	opts     Options

	// states is owned by the single sync loop; loaded once, persisted
	// write-through every cycle.
	states map[string]models.LogState

	now func() time.Time
}

// NewSyncService creates the orchestrator and loads the persisted
// per-employee states.
func NewSyncService(
	terminal repository.Terminal,
	shifts *ShiftConfigStore,
	delivery repository.DeliveryRepository,
	store StateStore,
	notifier CycleNotifier,
	opts Options,
) *SyncService {
	return &SyncService{
		terminal: terminal,
		shifts:   shifts,
		delivery: delivery,
		store:    store,
		notifier: notifier,
		opts:     opts,
		states:   store.LoadLogStates(),
		now:      time.Now,
	}
}

// RunCycle executes one full cycle. Errors are cycle-level: the caller
// logs them and tries again next cycle, nothing is fatal.
func (s *SyncService) RunCycle(ctx context.Context) error {
	// The checkpoint advances to the cycle's wall-clock start, not the max
	// punch timestamp, so punches arriving mid-cycle are retried next time.
	cycleStart := s.now()

	configs := s.shifts.Resolve(ctx)

	watermark, ok := s.store.LoadCheckpoint()
	if !ok {
		watermark = s.opts.StartFrom
	}

	conn, err := s.terminal.Connect(ctx)
	if err != nil {
		obs.CycleFinished("terminal_error")
		s.notify(fmt.Sprintf("⚠️ Terminal unreachable: %v", err))
		return fmt.Errorf("connect terminal: %w", err)
	}
	defer conn.Close()

	punches, err := conn.PullAttendance(ctx)
	if err != nil {
		obs.CycleFinished("terminal_error")
		return fmt.Errorf("pull attendance: %w", err)
	}
	obs.PunchesPulled(len(punches))

	batch := s.classifyBatch(punches, watermark, configs)

	if len(batch) == 0 {
		if err := s.persistStates(); err != nil {
			return err
		}
		obs.CycleFinished("no_events")
		obs.Logger().Info("cycle finished, nothing to deliver",
			"watermark", watermark.Format(models.TimestampLayout))
		return nil
	}

	outcome, deliverErr := s.delivery.Deliver(ctx, batch)
	switch outcome {
	case models.DeliveryCommitted:
		if err := s.store.SaveCheckpoint(cycleStart); err != nil {
			obs.Logger().Error("persist checkpoint", "error", err)
		}
		if c, ok := s.terminal.(repository.Compacter); ok {
			c.CompactBefore(cycleStart)
		}
		obs.EventsDelivered(len(batch))
		obs.Logger().Info("batch delivered",
			"events", len(batch),
			"checkpoint", cycleStart.Format(models.TimestampLayout))
		s.notify(fmt.Sprintf("✅ Delivered %d attendance events, checkpoint %s",
			len(batch), cycleStart.Format(models.TimestampLayout)))

	case models.DeliverySoftRejected:
		// Remote-side dedup. Not an error, but the checkpoint stays put so
		// the batch is retried next cycle.
		obs.Logger().Warn("batch soft-rejected as duplicate",
			"call", "ingest_api", "events", len(batch))

	default:
		obs.Logger().Error("batch delivery failed",
			"call", "ingest_api", "events", len(batch), "error", deliverErr)
		s.notify(fmt.Sprintf("❌ Delivery of %d events failed: %v", len(batch), deliverErr))
	}
	obs.CycleFinished(outcome.String())

	// Log states are persisted regardless of the delivery outcome so the
	// in/out alternation survives a restart. Note the retry caveat in
	// DESIGN.md: a retried batch is re-classified against state that has
	// already absorbed it.
	if err := s.persistStates(); err != nil {
		return err
	}

	if outcome == models.DeliveryFailed {
		return fmt.Errorf("deliver batch: %w", deliverErr)
	}
	return nil
}

// classifyBatch runs watermark filtering, deduplication and classification
// over the pulled punches, mutating the in-memory employee states.
func (s *SyncService) classifyBatch(
	punches []models.RawPunch,
	watermark time.Time,
	configs map[string]models.ShiftConfig,
) []models.ClassifiedEvent {
	var batch []models.ClassifiedEvent

	for _, p := range punches {
		if p.Timestamp.Before(watermark) {
			continue
		}

		prior := s.priorState(p.EmployeeID)
		if classifier.IsDuplicate(p, prior) {
			obs.PunchDeduplicated()
			obs.Logger().Debug("duplicate punch dropped",
				"employee_id", p.EmployeeID,
				"timestamp", p.Timestamp.Format(models.TimestampLayout))
			continue
		}

		var cfg *models.ShiftConfig
		if c, ok := configs[p.EmployeeID]; ok {
			cfg = &c
		}

		direction := classifier.Classify(p, prior, cfg)
		s.states[p.EmployeeID] = models.LogState{LogTime: p.Timestamp, Direction: direction}

		now := s.now()
		batch = append(batch, models.ClassifiedEvent{
			EmployeeID: p.EmployeeID,
			CompanyID:  s.opts.CompanyID,
			BranchID:   s.opts.BranchID,
			CheckDate:  p.Timestamp.Format(models.DateLayout),
			CheckTime:  p.Timestamp.Format(models.ClockLayout),
			Direction:  direction,
			DeviceName: s.opts.DeviceName,
			CreatedAt:  now,
			UpdatedAt:  now,
		})

		obs.Logger().Debug("punch classified",
			"employee_id", p.EmployeeID,
			"timestamp", p.Timestamp.Format(models.TimestampLayout),
			"direction", direction)
	}
	return batch
}

func (s *SyncService) priorState(employeeID string) *models.LogState {
	if st, ok := s.states[employeeID]; ok {
		return &st
	}
	return nil
}

func (s *SyncService) persistStates() error {
	if err := s.store.SaveLogStates(s.states); err != nil {
		return fmt.Errorf("persist log states: %w", err)
	}
	return nil
}

func (s *SyncService) notify(message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendNotification(message)
}
