package sentmail

import (
	"context"
	"errors"
)

var (
	// ErrPersistence marks every failure reported by a store.
	ErrPersistence = errors.New("sentmail: persistence failed")

	ErrBlankSender    = errors.New("sentmail: sender must not be blank")
	ErrBlankRecipient = errors.New("sentmail: recipient must not be blank")
)

// Store is an append-only, sender-keyed record of sent mail.
type Store interface {
	// Insert appends a record and returns its ID. IDs increase monotonically
	// in insertion order. Blank sender or recipient fails with ErrPersistence.
	Insert(ctx context.Context, rec NewRecord) (int64, error)

	// FindBySender returns the sender's committed records ordered by ascending
	// ID. An unknown sender yields an empty, non-nil slice.
	FindBySender(ctx context.Context, sender string) ([]Summary, error)
}

// TxStore is a Store that can group writes into a unit of work.
type TxStore interface {
	Store

	// WithinTx runs fn against a transactional view of the store.
	// Writes made through that view become visible only if fn returns nil;
	// otherwise they are discarded and fn's error is returned unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
