package state

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/database/memory"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/identity"
)

func newTestService(t *testing.T) (Service, *cycle.SimulatedClock) {
	t.Helper()
	clock := cycle.NewSimulatedClock(time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	return NewService(memory.New(), clock, time.Second), clock
}

func floatPtr(v float64) *float64 { return &v }

func TestPutState_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := identity.New("p", "alice")

	tests := []struct {
		name    string
		id      identity.Identity
		update  Update
		wantErr error
		msg     string
	}{
		{"anonymous", identity.New("p", ""), Update{Level: floatPtr(1)}, domain.ErrUnauthorized, ""},
		{"empty", user, Update{}, domain.ErrInvalidInput, ErrMsgLevelOrDataRequired},
		{"nan level", user, Update{Level: floatPtr(math.NaN())}, domain.ErrInvalidInput, ErrMsgLevelNotFinite},
		{"array data", user, Update{Data: json.RawMessage(`[1,2]`)}, domain.ErrInvalidInput, ErrMsgDataNotObject},
		{"null data", user, Update{Data: json.RawMessage(`null`)}, domain.ErrInvalidInput, ErrMsgDataNotObject},
		{"oversized key", user, Update{Data: json.RawMessage(`{"` + strings.Repeat("k", 200) + `":1}`)}, domain.ErrInvalidInput, ErrMsgDataRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PutState(ctx, tt.id, tt.update)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestPutState_MergesWithPrevious(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	user := identity.New("p", "alice")

	_, err := svc.GetState(ctx, user)
	require.ErrorIs(t, err, domain.ErrStateNotFound)

	require.NoError(t, svc.RecordBestScore(ctx, user, 9000))

	first, err := svc.PutState(ctx, user, Update{Level: floatPtr(3.9)})
	require.NoError(t, err)
	require.NotNil(t, first.Level)
	assert.Equal(t, 3, *first.Level)
	require.NotNil(t, first.BestScore)
	assert.Equal(t, int64(9000), *first.BestScore, "best score survives a level write")

	clock.Advance(time.Minute)
	second, err := svc.PutState(ctx, user, Update{Data: json.RawMessage(`{"wave":12}`)})
	require.NoError(t, err)
	assert.Equal(t, 3, *second.Level, "level survives a data write")
	assert.JSONEq(t, `{"wave":12}`, string(second.Data))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	got, err := svc.GetState(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, int64(9000), *got.BestScore)
}

func TestRecordBestScore_KeepsLevelAndData(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user := identity.New("p", "bob")

	_, err := svc.PutState(ctx, user, Update{Level: floatPtr(7), Data: json.RawMessage(`{"k":"v"}`)})
	require.NoError(t, err)
	require.NoError(t, svc.RecordBestScore(ctx, user, 123))

	got, err := svc.GetState(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 7, *got.Level)
	assert.JSONEq(t, `{"k":"v"}`, string(got.Data))
	assert.Equal(t, int64(123), *got.BestScore)
}
