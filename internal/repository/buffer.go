package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Palindrome-NT/attendance-logs-script/internal/models"
)

// PunchBuffer is an in-process punch source fed by the HTTP punch bridge.
// Punches are retained across cycles so an uncommitted batch can be
// retried, and compacted away once the watermark passes them.
//
// Append runs on handler goroutines; everything else runs on the single
// sync loop.
type PunchBuffer struct {
	mu      sync.Mutex
	punches []models.RawPunch
}

// NewPunchBuffer creates an empty buffer.
func NewPunchBuffer() *PunchBuffer {
	return &PunchBuffer{}
}

// Append adds punches received from a device bridge.
func (b *PunchBuffer) Append(punches ...models.RawPunch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.punches = append(b.punches, punches...)
}

// Len returns the number of buffered punches.
func (b *PunchBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.punches)
}

// Connect implements Terminal. The buffer is always reachable.
func (b *PunchBuffer) Connect(ctx context.Context) (Connection, error) {
	return bufferConn{b}, nil
}

// CompactBefore drops punches older than t. Called by the orchestrator
// after a committed delivery.
func (b *PunchBuffer) CompactBefore(t time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.punches[:0]
	for _, p := range b.punches {
		if !p.Timestamp.Before(t) {
			kept = append(kept, p)
		}
	}
	b.punches = kept
}

type bufferConn struct {
	buf *PunchBuffer
}

// PullAttendance returns a snapshot of the buffered punches ordered by
// timestamp. The buffer is not drained; compaction happens separately.
func (c bufferConn) PullAttendance(ctx context.Context) ([]models.RawPunch, error) {
	c.buf.mu.Lock()
	snapshot := make([]models.RawPunch, len(c.buf.punches))
	copy(snapshot, c.buf.punches)
	c.buf.mu.Unlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Timestamp.Before(snapshot[j].Timestamp)
	})
	return snapshot, nil
}

func (c bufferConn) Close() error { return nil }
