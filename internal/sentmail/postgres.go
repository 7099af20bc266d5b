package sentmail

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailsender/pkg/db"
)

const (
	insertSentMail = `
		INSERT INTO sent_mails (sender, recipient, subject, body)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING id`

	selectBySender = `
		SELECT recipient, COALESCE(subject, ''), COALESCE(body, '')
		FROM sent_mails
		WHERE sender = $1
		ORDER BY id`
)

// conn is implemented by both *pgxpool.Pool and pgx.Tx.
type conn interface {
	db.Querier
	db.TxBeginner
}

// PostgresStore keeps records in the sent_mails table.
// Identity columns provide the monotonically increasing IDs.
type PostgresStore struct {
	conn conn
}

// NewPostgresStore creates a store on top of pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{conn: pool}
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, rec NewRecord) (int64, error) {
	if err := rec.validate(); err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}

	var id int64
	err := s.conn.QueryRow(ctx, insertSentMail, rec.Sender, rec.Recipient, rec.Subject, rec.Body).Scan(&id)
	if err != nil {
		return 0, errors.Join(ErrPersistence, err)
	}
	return id, nil
}

// FindBySender implements Store.
func (s *PostgresStore) FindBySender(ctx context.Context, sender string) ([]Summary, error) {
	rows, err := s.conn.Query(ctx, selectBySender, sender)
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}

	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Summary])
	if err != nil {
		return nil, errors.Join(ErrPersistence, err)
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

// WithinTx implements TxStore. Called on a store that is already inside a
// transaction, it opens a savepoint.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	err := db.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{conn: tx})
	})
	if errors.Is(err, db.ErrBeginTx) || errors.Is(err, db.ErrCommitTx) {
		return errors.Join(ErrPersistence, err)
	}
	return err
}
