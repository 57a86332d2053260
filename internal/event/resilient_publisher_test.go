package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/testing/leaktest"
)

// flakyBus fails the first failures publishes
type flakyBus struct {
	mu       sync.Mutex
	calls    int
	failures int
}

func (b *flakyBus) Publish(context.Context, Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failures {
		return errors.New("bus unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry DeadLetterEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestResilientPublisher_SuccessfulPublish(t *testing.T) {
	bus := &flakyBus{}
	rp, err := NewResilientPublisher(bus, 3, time.Millisecond, t.TempDir()+"/dl.jsonl")
	require.NoError(t, err)
	defer rp.Shutdown(context.Background())

	rp.PublishWithRetry(context.Background(), Event{Type: RunStarted})
	assert.Equal(t, 1, bus.callCount())
}

func TestResilientPublisher_RetrySucceeds(t *testing.T) {
	bus := &flakyBus{failures: 2}
	path := t.TempDir() + "/dl.jsonl"
	rp, err := NewResilientPublisher(bus, 3, time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{Type: RunCompleted})

	assert.Eventually(t, func() bool { return bus.callCount() == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ExhaustedGoesToDeadLetter(t *testing.T) {
	bus := &flakyBus{failures: 100}
	path := t.TempDir() + "/dl.jsonl"
	rp, err := NewResilientPublisher(bus, 2, time.Millisecond, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{Type: LevelUp, Version: EventSchemaVersion})

	assert.Eventually(t, func() bool { return bus.callCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		info, err := os.Stat(path)
		return err == nil && info.Size() > 0
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, rp.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, LevelUp, entries[0].Event.Type)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "bus unavailable", entries[0].LastError)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
}

func TestResilientPublisher_ShutdownDeadLettersPending(t *testing.T) {
	bus := &flakyBus{failures: 100}
	path := t.TempDir() + "/dl.jsonl"
	rp, err := NewResilientPublisher(bus, 5, time.Hour, path)
	require.NoError(t, err)

	rp.PublishWithRetry(context.Background(), Event{Type: QuestCompleted})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rp.Shutdown(ctx))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, QuestCompleted, entries[0].Event.Type)
}

func TestNewResilientPublisher_BadPath(t *testing.T) {
	_, err := NewResilientPublisher(&flakyBus{}, 1, time.Millisecond, t.TempDir()+"/missing/dir/dl.jsonl")
	assert.Error(t, err)
}

func TestResilientPublisher_ShutdownStopsWorker(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		rp, err := NewResilientPublisher(&flakyBus{failures: 100}, 5, time.Hour, t.TempDir()+"/dl.jsonl")
		require.NoError(t, err)

		rp.PublishWithRetry(context.Background(), Event{Type: RunCompleted})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, rp.Shutdown(ctx))
	})
}
