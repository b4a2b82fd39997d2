package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	return m, cancel
}

func waitForEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_EmitReachesClients(t *testing.T) {
	m, cancel := newTestManager(t)
	defer cancel()

	client, err := m.Connect()
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	m.Emit(NewSteamStatusEvent(domain.SteamStatus{State: domain.ClientReady, AppID: 480}))

	event := waitForEvent(t, client.EventChan)
	assert.Equal(t, EventSteamStatus, event.Type)

	status, ok := event.Data.(domain.SteamStatus)
	require.True(t, ok)
	assert.Equal(t, domain.ClientReady, status.State)
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	m, cancel := newTestManager(t)
	defer cancel()

	a, err := m.Connect()
	require.NoError(t, err)
	b, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	m.Emit(NewUploadCompletedEvent(&domain.HistoryEntry{ID: "hist-1"}))

	assert.Equal(t, EventUploadCompleted, waitForEvent(t, a.EventChan).Type)
	assert.Equal(t, EventUploadCompleted, waitForEvent(t, b.EventChan).Type)
}

func TestManager_DisconnectClosesClient(t *testing.T) {
	m, cancel := newTestManager(t)
	defer cancel()

	client, err := m.Connect()
	require.NoError(t, err)
	m.Disconnect(client.ID)

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("client Done channel not closed")
	}
	assert.Zero(t, m.ClientCount())

	// Disconnecting twice is harmless.
	m.Disconnect(client.ID)
}

func TestManager_ShutdownDrainsAndCloses(t *testing.T) {
	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	defer cancel()

	client, err := m.Connect()
	require.NoError(t, err)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	cancel()
	require.NoError(t, m.Shutdown(shutdownCtx))

	// Emit after shutdown is dropped, not a panic.
	m.Emit(NewHeartbeatEvent())

	select {
	case <-client.Done:
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
}

func TestBridge_ForwardsCallbacks(t *testing.T) {
	m, cancel := newTestManager(t)
	defer cancel()

	client, err := m.Connect()
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	bridge := NewBridge(m)

	bridge.SteamStatusChanged(domain.SteamStatus{State: domain.ClientInitializing})
	assert.Equal(t, EventSteamStatus, waitForEvent(t, client.EventChan).Type)

	bridge.UploadCompleted(&domain.HistoryEntry{ID: "hist-2"})
	assert.Equal(t, EventUploadCompleted, waitForEvent(t, client.EventChan).Type)

	bridge.ArchiveChanged("/mods/sky-lotus.zip", &domain.PackageMetadata{Name: "sky-lotus"})
	event := waitForEvent(t, client.EventChan)
	assert.Equal(t, EventArchiveChanged, event.Type)
	data, ok := event.Data.(ArchiveChangedData)
	require.True(t, ok)
	assert.Equal(t, "/mods/sky-lotus.zip", data.Path)
}
