package models_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/nrednav/cuid2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/strand/db"
	"go.hackfix.me/strand/db/models"
	"go.hackfix.me/strand/db/types"
)

func newTestDB(t *testing.T, timeNow func() time.Time) *db.DB {
	t.Helper()

	d, err := db.Open(context.Background(), ":memory:", timeNow, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func TestRequestSave(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := newTestDB(t, func() time.Time { return now })
	ctx := context.Background()

	req := &models.Request{RequestID: "req-1", Method: "GET", Path: "/hello", RemoteAddr: "127.0.0.1:1234"}
	require.NoError(t, req.Save(ctx, d))
	assert.True(t, cuid2.IsCuid(req.ID))
	assert.Equal(t, now, req.CreatedAt)

	// A retried request reuses its request ID.
	retry := &models.Request{RequestID: "req-1", Method: "GET", Path: "/hello", RemoteAddr: "127.0.0.1:1234"}
	require.NoError(t, retry.Save(ctx, d))
	assert.NotEqual(t, req.ID, retry.ID)

	dup := &models.Request{ID: req.ID, RequestID: "req-2", Method: "POST", Path: "/echo"}
	err := dup.Save(ctx, d)
	require.Error(t, err)
	var dupErr *types.DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, fmt.Sprintf("request with ID '%s' already exists", req.ID), err.Error())

	reqs, err := models.Requests(ctx, d, types.NewFilter("r.request_id = ?", []any{"req-1"}))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, []string{retry.ID, req.ID}, []string{reqs[0].ID, reqs[1].ID})
	for _, r := range reqs {
		assert.Equal(t, "req-1", r.RequestID)
		assert.Equal(t, "/hello", r.Path)
		assert.True(t, now.Equal(r.CreatedAt))
	}
}

func TestRequests(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := newTestDB(t, func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	ctx := context.Background()

	for _, r := range []*models.Request{
		{ID: "r1", Method: "GET", Path: "/hello"},
		{ID: "r2", Method: "POST", Path: "/echo"},
		{ID: "r3", Method: "GET", Path: "/hello"},
	} {
		require.NoError(t, r.Save(ctx, d))
	}

	ids := func(reqs []*models.Request) []string {
		out := make([]string, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter *types.Filter
		expIDs []string
	}{
		{name: "ok/all", expIDs: []string{"r3", "r2", "r1"}},
		{name: "ok/limit", filter: &types.Filter{Limit: 2}, expIDs: []string{"r3", "r2"}},
		{
			name:   "ok/method",
			filter: types.NewFilter("r.method = ?", []any{"GET"}),
			expIDs: []string{"r3", "r1"},
		},
		{
			name: "ok/and",
			filter: (&types.Filter{Where: "r.method = ?", Args: []any{"GET"}, Limit: 1}).
				And(types.NewFilter("r.path = ?", []any{"/hello"})),
			expIDs: []string{"r3"},
		},
		{
			name:   "ok/no_match",
			filter: types.NewFilter("r.path = ?", []any{"/missing"}),
			expIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reqs, err := models.Requests(ctx, d, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expIDs, ids(reqs))
		})
	}
}
