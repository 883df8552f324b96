package types_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/strand/web/server/types"
)

func TestResponseHasStarted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		act        func(t *testing.T, resp *types.Response)
		expStarted bool
		expStatus  int
		expWritten int64
	}{
		{
			name: "ok/untouched",
			act:  func(*testing.T, *types.Response) {},
		},
		{
			name: "ok/header_only",
			act: func(_ *testing.T, resp *types.Response) {
				resp.Header().Set("X-Test", "1")
			},
		},
		{
			name: "ok/informational",
			act: func(_ *testing.T, resp *types.Response) {
				resp.WriteHeader(http.StatusEarlyHints)
			},
		},
		{
			name: "ok/write_header",
			act: func(_ *testing.T, resp *types.Response) {
				resp.WriteHeader(http.StatusNotFound)
			},
			expStarted: true,
			expStatus:  http.StatusNotFound,
		},
		{
			name: "ok/write",
			act: func(t *testing.T, resp *types.Response) {
				_, err := resp.Write([]byte("hello"))
				require.NoError(t, err)
			},
			expStarted: true,
			expStatus:  http.StatusOK,
			expWritten: 5,
		},
		{
			name: "ok/write_header_then_write",
			act: func(t *testing.T, resp *types.Response) {
				resp.WriteHeader(http.StatusCreated)
				_, err := resp.Write([]byte("hi"))
				require.NoError(t, err)
			},
			expStarted: true,
			expStatus:  http.StatusCreated,
			expWritten: 2,
		},
		{
			name: "ok/flush",
			act: func(t *testing.T, resp *types.Response) {
				require.NoError(t, http.NewResponseController(resp).Flush())
			},
			expStarted: true,
			expStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := types.NewResponse(httptest.NewRecorder())
			tt.act(t, resp)
			assert.Equal(t, tt.expStarted, resp.HasStarted())
			assert.Equal(t, tt.expStatus, resp.StatusCode())
			assert.Equal(t, tt.expWritten, resp.Written())
		})
	}
}

func TestResponsePreservesInterfaces(t *testing.T) {
	t.Parallel()

	resp := types.NewResponse(httptest.NewRecorder())
	_, ok := resp.Writer().(http.Flusher)
	assert.True(t, ok)

	// httptest.ResponseRecorder doesn't implement http.Hijacker.
	_, ok = resp.Writer().(http.Hijacker)
	assert.False(t, ok)

}

func TestContext(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
	resp := types.NewResponse(rec)

	c := types.NewContext(resp, req, "req-1", nil)
	assert.Same(t, resp, c.Response, "an existing Response must not be wrapped twice")
	assert.Equal(t, "req-1", c.ID)
	assert.NotNil(t, c.Logger)
	assert.Equal(t, req.Context(), c.Context())

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", 1)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c2 := types.NewContext(rec, req, "req-2", slog.Default())
	assert.NotSame(t, resp, c2.Response)
}

func TestToHTTPError(t *testing.T) {
	t.Parallel()

	httpErr := types.NewError(http.StatusForbidden, "no access to thing")
	plainErr := assert.AnError

	tests := []struct {
		name      string
		err       error
		lvl       types.ErrorLevel
		expStatus int
		expMsg    string
	}{
		{"ok/none_http", httpErr, types.ErrorLevelNone, http.StatusForbidden, "Forbidden"},
		{"ok/none_plain", plainErr, types.ErrorLevelNone, http.StatusInternalServerError, "Internal Server Error"},
		{"ok/minimal_http", httpErr, types.ErrorLevelMinimal, http.StatusForbidden, "no access to thing"},
		{"ok/minimal_plain", plainErr, types.ErrorLevelMinimal, http.StatusInternalServerError, "Internal Server Error"},
		{"ok/full_http", httpErr, types.ErrorLevelFull, http.StatusForbidden, "no access to thing"},
		{"ok/full_plain", plainErr, types.ErrorLevelFull, http.StatusInternalServerError, plainErr.Error()},
		{
			"ok/minimal_empty_message", types.NewError(http.StatusNotFound, ""),
			types.ErrorLevelMinimal, http.StatusNotFound, "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			terr := types.ToHTTPError(tt.err, tt.lvl)
			assert.Equal(t, tt.expStatus, terr.StatusCode)
			assert.Equal(t, tt.expMsg, terr.Message)
		})
	}
}

func TestErrorLevelFromString(t *testing.T) {
	t.Parallel()

	lvl, err := types.ErrorLevelFromString("minimal")
	require.NoError(t, err)
	assert.Equal(t, types.ErrorLevelMinimal, lvl)

	_, err = types.ErrorLevelFromString("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid error level")
}
