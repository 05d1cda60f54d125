package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getState = `SELECT payload FROM app_state WHERE key = ?`

func (q *Queries) GetState(ctx context.Context, key string) ([]byte, error) {
	row := q.db.QueryRowContext(ctx, getState, key)
	var payload []byte
	err := row.Scan(&payload)
	return payload, err
}

const upsertState = `INSERT INTO app_state (key, payload, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

type UpsertStateParams struct {
	Key     string
	Payload []byte
}

func (q *Queries) UpsertState(ctx context.Context, arg UpsertStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertState, arg.Key, arg.Payload)
	return err
}
