package mailer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

func TestInstrument(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := mailer.NewMetrics(reg)

	calls := 0
	failing := errors.Join(mailer.ErrSendFailed, errors.New("connection refused"))
	base := mailer.SenderFunc(func(ctx context.Context, email *mailer.Email) error {
		calls++
		if email.To == "broken@example.com" {
			return failing
		}
		return nil
	})

	sender := mailer.Instrument(base, "smtp", m)
	ctx := context.Background()

	require.NoError(t, sender.Send(ctx, &mailer.Email{From: "a@example.com", To: "b@example.com"}))
	require.NoError(t, sender.Send(ctx, &mailer.Email{From: "a@example.com", To: "c@example.com"}))

	err := sender.Send(ctx, &mailer.Email{From: "a@example.com", To: "broken@example.com"})
	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.Equal(t, failing, err)

	require.Equal(t, 3, calls)

	expected := `
# HELP mailer_send_total Number of emails handed to the transport, by result.
# TYPE mailer_send_total counter
mailer_send_total{result="failure",transport="smtp"} 1
mailer_send_total{result="success",transport="smtp"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mailer_send_total"))
	histograms, err := testutil.GatherAndCount(reg, "mailer_send_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, histograms)
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	t.Parallel()

	m := mailer.NewMetrics(nil)
	sender := mailer.Instrument(mailer.SenderFunc(func(context.Context, *mailer.Email) error {
		return nil
	}), "console", m)

	require.NoError(t, sender.Send(context.Background(), &mailer.Email{From: "a@example.com", To: "b@example.com"}))
}
