package errors

import (
	"errors"
	"log/slog"
	"sort"
)

// Log logs an error with logger, extracting metadata if it's a
// StructuredError. If logger is nil, the default slog logger is used.
func Log(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Error(err.Error())
		return
	}

	logger.Error(serr.Error(), Attrs(serr)...)
}

// Attrs returns the cause and metadata of err as slog key-value pairs, sorted
// by key. It returns nil if err isn't a StructuredError.
func Attrs(err error) []any {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		return nil
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	return args
}
