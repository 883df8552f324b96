package errors_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	aerrors "go.hackfix.me/strand/app/errors"
)

func TestWith(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	base := aerrors.NewWithCause("failed doing thing", cause, "a", 1)
	merged := aerrors.With(base, "b", 2, "a", 3)

	assert.Equal(t, "failed doing thing", merged.Error())
	assert.Equal(t, map[string]any{"a": 3, "b": 2}, merged.Metadata())
	assert.Same(t, cause, merged.Cause())
	assert.ErrorIs(t, merged, cause)

	assert.PanicsWithValue(t, "an even number of fields is required", func() {
		aerrors.NewWith("x", "odd")
	})
	assert.PanicsWithValue(t, "keys must be strings", func() {
		aerrors.NewWith("x", 1, 2)
	})
}

func TestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expOut []string
	}{
		{
			name:   "ok/plain",
			err:    errors.New("plain error"),
			expOut: []string{`msg="plain error"`},
		},
		{
			name: "ok/structured",
			err: aerrors.NewWithCause("handler failed",
				errors.New("disk full"), "z_key", "last", "a_key", "first"),
			expOut: []string{`msg="handler failed"`, `cause="disk full" a_key=first z_key=last`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			aerrors.Log(logger, tt.err)
			for _, exp := range tt.expOut {
				assert.Contains(t, buf.String(), exp)
			}
		})
	}

	assert.Nil(t, aerrors.Attrs(errors.New("plain")))
}
