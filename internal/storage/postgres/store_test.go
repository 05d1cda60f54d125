package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"condo/internal/storage"
)

func TestNewStoreCreatesTableAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore(ctx, "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if !conn.sawExec("CREATE TABLE IF NOT EXISTS app_state") {
		t.Fatalf("expected state table DDL, got %v", conn.execs)
	}
	if _, err := store.Load(ctx); !errors.Is(err, storage.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if err := store.Save(ctx, []byte(`{"schemaVersion":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"schemaVersion":1}` {
		t.Fatalf("unexpected payload %s", got)
	}
}

func TestSaveWrapsExecErrors(t *testing.T) {
	ctx := context.Background()
	db, conn := newStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	store, err := NewStore(ctx, "ignored")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	conn.setFailExec(true)
	if err := store.Save(ctx, []byte(`{}`)); err == nil || !strings.Contains(err.Error(), "upsert state") {
		t.Fatalf("expected wrapped upsert error, got %v", err)
	}
}

func TestNewStoreFailsWhenPingFails(t *testing.T) {
	db, conn := newStubDB()
	conn.setFailPing(true)
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatal("expected ping failure")
	}
}

// stub driver keeping one key/value table in memory

type stubDriver struct{ conn *stubConn }

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

type stubConn struct {
	mu       sync.Mutex
	rows     map[string][]byte
	execs    []string
	failExec bool
	failPing bool
}

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{rows: map[string][]byte{}}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

func (c *stubConn) setFailExec(v bool) { c.mu.Lock(); c.failExec = v; c.mu.Unlock() }
func (c *stubConn) setFailPing(v bool) { c.mu.Lock(); c.failPing = v; c.mu.Unlock() }

func (c *stubConn) sawExec(prefix string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range c.execs {
		if strings.HasPrefix(strings.TrimSpace(q), prefix) {
			return true
		}
	}
	return false
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("not implemented") }

func (c *stubConn) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPing {
		return errors.New("ping fail")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, query)
	if c.failExec {
		return nil, errors.New("exec fail")
	}
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO app_state") {
		key, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		c.rows[key] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, _ string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, _ := args[0].Value.(string)
	payload, ok := c.rows[key]
	r := &stubRows{}
	if ok {
		r.values = [][]driver.Value{{payload}}
	}
	return r, nil
}

type stubRows struct {
	values [][]driver.Value
	idx    int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }
func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.idx])
	r.idx++
	return nil
}
