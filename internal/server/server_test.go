package server_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/internal/server"
	"github.com/dmitrymomot/mailsender/pkg/logger"
)

func TestServer_ServesAndShutsDown(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	var hookCalls []string
	srv := server.New(handler, logger.NewNope(),
		server.WithAddr("127.0.0.1:0"),
		server.WithShutdownTimeout(time.Second),
		server.WithShutdownHook(
			func(context.Context) error { hookCalls = append(hookCalls, "db"); return nil },
			func(context.Context) error { hookCalls = append(hookCalls, "sentry"); return nil },
		),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	addr := <-srv.Ready()
	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.Equal(t, []string{"db", "sentry"}, hookCalls)
}

func TestServer_HookErrorsAreReturned(t *testing.T) {
	t.Parallel()

	hookErr := errors.New("close failed")
	srv := server.New(http.NotFoundHandler(), logger.NewNope(),
		server.WithAddr("127.0.0.1:0"),
		server.WithShutdownHook(func(context.Context) error { return hookErr }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	<-srv.Ready()
	cancel()

	require.ErrorIs(t, <-done, hookErr)
}

func TestServer_ListenError(t *testing.T) {
	t.Parallel()

	srv := server.New(http.NotFoundHandler(), logger.NewNope(), server.WithAddr("256.0.0.1:99999"))
	require.Error(t, srv.Run(context.Background()))
}
