package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticserve/core/server"
)

func waitForAddr(t *testing.T, srv *server.Server) string {
	t.Helper()

	require.Eventually(t, func() bool {
		return srv.Addr() != nil
	}, 5*time.Second, 10*time.Millisecond)
	return "http://" + srv.Addr().String()
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, handler)()
	}()

	base := waitForAddr(t, srv)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerAlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		_ = srv.Stop()
	}()

	go func() {
		_ = srv.Start(ctx, http.NotFoundHandler())
	}()
	waitForAddr(t, srv)

	err := srv.Start(ctx, http.NotFoundHandler())
	assert.ErrorIs(t, err, server.ErrServerAlreadyRunning)
}

func TestServerListenError(t *testing.T) {
	t.Parallel()

	err := server.New("invalid-address").Start(context.Background(), http.NotFoundHandler())
	assert.ErrorIs(t, err, server.ErrListen)
}

func TestStopWhenNotRunning(t *testing.T) {
	t.Parallel()

	assert.NoError(t, server.New(":0").Stop())
}
