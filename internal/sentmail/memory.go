package sentmail

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store for tests and local development.
// It follows the same contract as PostgresStore: IDs come from a shared
// counter (rolled-back inserts leave gaps) and uncommitted writes are invisible
// to other readers.
type MemoryStore struct {
	records []Record
	nextID  int64
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, rec NewRecord) (int64, error) {
	if err := rec.validate(); err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.records = append(s.records, newStoredRecord(s.nextID, rec))
	return s.nextID, nil
}

// FindBySender implements Store.
func (s *MemoryStore) FindBySender(_ context.Context, sender string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return summariesOf(sender, s.records), nil
}

// Len returns the number of committed records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// WithinTx implements TxStore.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	tx := &memoryTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Concurrent transactions may commit out of ID order.
	s.records = append(s.records, tx.staged...)
	slices.SortFunc(s.records, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
	return nil
}

func (s *MemoryStore) reserveID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

// memoryTx stages inserts until the surrounding WithinTx commits.
type memoryTx struct {
	store  *MemoryStore
	staged []Record
}

func (t *memoryTx) Insert(_ context.Context, rec NewRecord) (int64, error) {
	if err := rec.validate(); err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}
	id := t.store.reserveID()
	t.staged = append(t.staged, newStoredRecord(id, rec))
	return id, nil
}

// FindBySender sees committed records plus the transaction's own writes.
func (t *memoryTx) FindBySender(_ context.Context, sender string) ([]Summary, error) {
	t.store.mu.RLock()
	all := make([]Record, 0, len(t.store.records)+len(t.staged))
	all = append(all, t.store.records...)
	t.store.mu.RUnlock()

	all = append(all, t.staged...)
	slices.SortFunc(all, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
	return summariesOf(sender, all), nil
}

func newStoredRecord(id int64, rec NewRecord) Record {
	return Record{
		ID:        id,
		Sender:    rec.Sender,
		Recipient: rec.Recipient,
		Subject:   rec.Subject,
		Body:      rec.Body,
	}
}

// summariesOf filters records, which must already be ordered by ID.
func summariesOf(sender string, records []Record) []Summary {
	out := []Summary{}
	for _, r := range records {
		if r.Sender == sender {
			out = append(out, r.Summary())
		}
	}
	return out
}
