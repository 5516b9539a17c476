// Package services implements business logic for the application
package services

import (
	"context"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
	"github.com/Palindrome-NT/attendance-logs-script/internal/obs"
	"github.com/Palindrome-NT/attendance-logs-script/internal/repository"
)

// StateStore is the persistence contract for the worker's durable records.
type StateStore interface {
	LoadCheckpoint() (time.Time, bool)
	SaveCheckpoint(t time.Time) error
	LoadLogStates() map[string]models.LogState
	SaveLogStates(states map[string]models.LogState) error
	LoadShiftCache() map[string]models.ShiftConfig
	SaveShiftCache(configs map[string]models.ShiftConfig) error
}

// ShiftConfigStore holds the last-known shift configuration per employee,
// refreshed from the shift API and backed by a persisted cache.
type ShiftConfigStore struct {
	repo  repository.ShiftRepository
	store StateStore
}

// NewShiftConfigStore creates the store.
func NewShiftConfigStore(repo repository.ShiftRepository, store StateStore) *ShiftConfigStore {
	return &ShiftConfigStore{repo: repo, store: store}
}

// Resolve returns the shift map for this cycle. A successful refresh
// replaces and persists the cache whole; any failure falls back to the
// cached copy. Partial updates never happen.
func (s *ShiftConfigStore) Resolve(ctx context.Context) map[string]models.ShiftConfig {
	configs, err := s.repo.FetchShiftConfigs(ctx)
	if err != nil {
		obs.ShiftRefreshFailed()
		obs.Logger().Warn("shift refresh failed, falling back to cache",
			"call", "shift_api", "error", err)
		return s.store.LoadShiftCache()
	}

	if err := s.store.SaveShiftCache(configs); err != nil {
		obs.Logger().Error("persist shift cache", "error", err)
	}

	obs.Logger().Info("shift configs refreshed", "employees", len(configs))
	return configs
}
