package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSender records sent notifications and can be told to fail.
type fakeSender struct {
	name  string
	fail  bool
	sent  int
	title string
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	if f.fail {
		return errors.New("boom")
	}
	f.sent++
	f.title = title
	return nil
}

func TestNotify_EventFilter(t *testing.T) {
	t.Parallel()

	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, []string{"position_opened"}, testLogger())

	require.NoError(t, n.Notify(context.Background(), "position_closed", "t", "m"))
	assert.Zero(t, s.sent, "filtered events must not be delivered")

	require.NoError(t, n.Notify(context.Background(), "position_opened", "Opened", "m"))
	assert.Equal(t, 1, s.sent)
	assert.Equal(t, "Opened", s.title)
}

func TestNotify_EmptyFilterAllowsAll(t *testing.T) {
	t.Parallel()

	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	require.NoError(t, n.Notify(context.Background(), "anything", "t", "m"))
	assert.Equal(t, 1, s.sent)
}

func TestNotify_OneFailingSenderDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	bad := &fakeSender{name: "bad", fail: true}
	good := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, testLogger())

	err := n.Notify(context.Background(), "position_opened", "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.Equal(t, 1, good.sent)
}

func TestNotify_NoSenders(t *testing.T) {
	t.Parallel()

	n := NewNotifier(nil, nil, testLogger())
	assert.NoError(t, n.Notify(context.Background(), "position_opened", "t", "m"))
}

func TestDiscordSender_Send(t *testing.T) {
	t.Parallel()

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	require.NoError(t, s.Send(context.Background(), "Position opened", "MOON $2.50"))
	assert.Equal(t, "**Position opened**\nMOON $2.50", got["content"])
}

func TestDiscordSender_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	err := s.Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
