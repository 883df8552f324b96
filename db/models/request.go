package models

import (
	"context"
	"fmt"
	"time"

	"github.com/nrednav/cuid2"

	"go.hackfix.me/strand/db/types"
)

// Request is the audit record of an authenticated API request. ID is
// generated when the record is saved. RequestID is the ID the request was
// handled with, which clients may reuse, so several records can share it.
type Request struct {
	ID         string
	RequestID  string
	CreatedAt  time.Time
	Method     string
	Path       string // relative to the API root
	RemoteAddr string
}

// Save stores a new request record in the database, and sets its ID.
// Records are immutable, so saving a record that already has an ID that
// exists returns a DuplicateError.
func (r *Request) Save(ctx context.Context, d types.Querier) error {
	id := r.ID
	if id == "" {
		id = cuid2.Generate()
	}

	timeNow := d.TimeNow().UTC()
	_, err := d.ExecContext(ctx,
		`INSERT INTO requests (id, request_id, created_at, method, path, remote_addr)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, r.RequestID, timeNow, r.Method, r.Path, r.RemoteAddr)
	if err != nil {
		return types.Err("request", fmt.Sprintf("ID '%s'", id), err)
	}
	r.ID = id
	r.CreatedAt = timeNow

	return nil
}

// Requests returns request records from the database, newest first. An
// optional filter can be passed to limit the results.
func Requests(ctx context.Context, d types.Querier, filter *types.Filter) (requests []*Request, rerr error) {
	query := `SELECT r.id, r.request_id, r.created_at, r.method, r.path, r.remote_addr
		FROM requests r
		WHERE %s
		ORDER BY r.created_at DESC, r.rowid DESC`

	where := "1=1"
	args := []any{}
	if filter != nil {
		if filter.Where != "" {
			where = filter.Where
		}
		args = filter.Args
	}

	query = fmt.Sprintf(query, where)
	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "requests", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing requests rows: %w", err)
		}
	}()

	requests = make([]*Request, 0)
	for rows.Next() {
		var r Request
		err = rows.Scan(&r.ID, &r.RequestID, &r.CreatedAt, &r.Method, &r.Path, &r.RemoteAddr)
		if err != nil {
			return nil, types.ScanError{ModelName: "request", Err: err}
		}
		requests = append(requests, &r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over requests rows: %w", err)
	}

	return requests, nil
}
