package sentmail_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/internal/sentmail"
)

// testStoreContract exercises the behaviour every TxStore implementation must share.
// newStore must return an empty store; senders are randomised per subtest so a
// shared database does not leak state between them.
func testStoreContract(t *testing.T, newStore func(t *testing.T) sentmail.TxStore) {
	t.Helper()

	sender := func(t *testing.T) string {
		return fmt.Sprintf("%s@example.com", sanitize(t.Name()))
	}

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		first, err := store.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com"})
		require.NoError(t, err)
		second, err := store.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "c@example.com"})
		require.NoError(t, err)

		require.Positive(t, first)
		require.Greater(t, second, first)
	})

	t.Run("find returns insertion order", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		for i := 1; i <= 3; i++ {
			_, err := store.Insert(ctx, sentmail.NewRecord{
				Sender:    from,
				Recipient: "b@example.com",
				Subject:   fmt.Sprintf("M%d", i),
				Body:      fmt.Sprintf("body %d", i),
			})
			require.NoError(t, err)
		}

		got, err := store.FindBySender(ctx, from)
		require.NoError(t, err)
		require.Equal(t, []sentmail.Summary{
			{Recipient: "b@example.com", Subject: "M1", Body: "body 1"},
			{Recipient: "b@example.com", Subject: "M2", Body: "body 2"},
			{Recipient: "b@example.com", Subject: "M3", Body: "body 3"},
		}, got)
	})

	t.Run("find isolates senders", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		x := "x-" + sender(t)
		y := "y-" + sender(t)

		_, err := store.Insert(ctx, sentmail.NewRecord{Sender: x, Recipient: "b@example.com", Subject: "from x"})
		require.NoError(t, err)

		got, err := store.FindBySender(ctx, y)
		require.NoError(t, err)
		require.Empty(t, got)

		got, err = store.FindBySender(ctx, x)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("unknown sender yields empty slice", func(t *testing.T) {
		store := newStore(t)

		got, err := store.FindBySender(context.Background(), "never-sent@x.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("optional fields round trip as empty", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		_, err := store.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com"})
		require.NoError(t, err)

		got, err := store.FindBySender(ctx, from)
		require.NoError(t, err)
		require.Equal(t, []sentmail.Summary{{Recipient: "b@example.com"}}, got)
	})

	t.Run("blank required fields are rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Insert(ctx, sentmail.NewRecord{Sender: " ", Recipient: "b@example.com"})
		require.ErrorIs(t, err, sentmail.ErrPersistence)
		require.ErrorIs(t, err, sentmail.ErrBlankSender)

		_, err = store.Insert(ctx, sentmail.NewRecord{Sender: sender(t), Recipient: ""})
		require.ErrorIs(t, err, sentmail.ErrPersistence)
		require.ErrorIs(t, err, sentmail.ErrBlankRecipient)

		got, err := store.FindBySender(ctx, sender(t))
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("committed transaction is visible", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		err := store.WithinTx(ctx, func(ctx context.Context, tx sentmail.Store) error {
			_, err := tx.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com", Subject: "S"})
			return err
		})
		require.NoError(t, err)

		got, err := store.FindBySender(ctx, from)
		require.NoError(t, err)
		require.Equal(t, []sentmail.Summary{{Recipient: "b@example.com", Subject: "S"}}, got)
	})

	t.Run("failed transaction is rolled back", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)
		boom := errors.New("boom")

		err := store.WithinTx(ctx, func(ctx context.Context, tx sentmail.Store) error {
			if _, err := tx.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com"}); err != nil {
				return err
			}

			// The transaction reads its own write.
			own, err := tx.FindBySender(ctx, from)
			if err != nil {
				return err
			}
			if len(own) != 1 {
				return fmt.Errorf("expected own write, got %d records", len(own))
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := store.FindBySender(ctx, from)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("uncommitted writes are invisible outside the transaction", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		err := store.WithinTx(ctx, func(ctx context.Context, tx sentmail.Store) error {
			if _, err := tx.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com"}); err != nil {
				return err
			}
			outside, err := store.FindBySender(ctx, from)
			if err != nil {
				return err
			}
			if len(outside) != 0 {
				return errors.New("uncommitted write leaked")
			}
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("concurrent inserts get distinct ids", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		from := sender(t)

		const n = 20
		ids := make([]int64, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = store.WithinTx(ctx, func(ctx context.Context, tx sentmail.Store) error {
					id, err := tx.Insert(ctx, sentmail.NewRecord{Sender: from, Recipient: "b@example.com"})
					ids[i] = id
					return err
				})
			}()
		}
		wg.Wait()
		require.NoError(t, errors.Join(errs...))

		seen := make(map[int64]struct{}, n)
		for _, id := range ids {
			require.Positive(t, id)
			seen[id] = struct{}{}
		}
		require.Len(t, seen, n)

		got, err := store.FindBySender(ctx, from)
		require.NoError(t, err)
		require.Len(t, got, n)
	})
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
