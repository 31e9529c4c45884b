package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(logger, tictactoe.NewEngine(logger)))
	t.Cleanup(srv.Close)

	return srv
}

func postAnalysis(t *testing.T, srv *httptest.Server, body string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/api/v1/analysis", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestAnalysis(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Empty board is a draw with the first cell", func(t *testing.T) {
		status, body := postAnalysis(t, srv, `{"board":["","","","","","","","",""]}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, map[string]any{"result": "ongoing"}, body["outcome"])
		assert.Equal(t, "X", body["next_mark"])
		assert.InDelta(t, 0, body["move"], 0)
		assert.InDelta(t, 0, body["score"], 0)
		assert.Positive(t, body["nodes"])
	})

	t.Run("O blocks the open row", func(t *testing.T) {
		// Given: X threatens 0-1-2 and O is to move
		status, body := postAnalysis(t, srv, `{"board":["X","X","","","O","","","",""]}`)

		// Then: the engine must answer on cell 2
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "O", body["next_mark"])
		assert.InDelta(t, 2, body["move"], 0)
	})

	t.Run("Finished board has no move", func(t *testing.T) {
		status, body := postAnalysis(t, srv, `{"board":["X","X","X","O","O","","","",""]}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, map[string]any{"result": "win", "winner": "X"}, body["outcome"])
		assert.NotContains(t, body, "move")
		assert.NotContains(t, body, "next_mark")
	})

	t.Run("Rejects malformed boards", func(t *testing.T) {
		for name, payload := range map[string]string{
			"not json":     `{"board":`,
			"short board":  `{"board":["X","O"]}`,
			"unknown mark": `{"board":["Z","","","","","","","",""]}`,
			"too many O":   `{"board":["O","O","","","","","","",""]}`,
			"two winners":  `{"board":["X","X","X","O","O","O","","",""]}`,
		} {
			status, body := postAnalysis(t, srv, payload)

			assert.Equal(t, http.StatusBadRequest, status, name)
			assert.NotEmpty(t, body["error"], name)
		}
	})

	t.Run("Rejects oversized bodies", func(t *testing.T) {
		// Given: a board padded far beyond any real request
		payload := `{"board":["","","","","","","","",""],"padding":"` + strings.Repeat("x", 2*maxAnalysisBody) + `"}`

		// When: it is posted
		status, body := postAnalysis(t, srv, payload)

		// Then: the server refuses to read it
		assert.Equal(t, http.StatusRequestEntityTooLarge, status)
		assert.Equal(t, "payload too large", body["error"])
	})
}

func TestStart_StopsOnCancel(t *testing.T) {
	// Given: a running server
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Start(ctx, "0", http.NotFoundHandler())
	}()

	// When: the context is canceled
	cancel()

	// Then: Start returns after a graceful shutdown
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not stop after cancel")
	}
}
