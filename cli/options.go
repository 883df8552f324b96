package cli

import (
	"fmt"
	"reflect"

	"github.com/alecthomas/kong"

	"go.hackfix.me/strand/xtime"
)

// DurationMapper parses durations with the extended units supported by
// xtime.ParseDuration, e.g. "1d" or "2w".
type DurationMapper struct{}

var _ kong.Mapper = DurationMapper{}

// Decode implements the kong.Mapper interface.
func (DurationMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	if err := kctx.Scan.PopValueInto("duration", &value); err != nil {
		return err //nolint:wrapcheck // Kong formats the error.
	}

	dur, err := xtime.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("failed parsing duration: %w", err)
	}
	if dur < 0 {
		return fmt.Errorf("duration '%s' must not be negative", value)
	}

	target.Set(reflect.ValueOf(dur))

	return nil
}
