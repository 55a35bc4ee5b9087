package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"
)

// A minimal driver serving canned rows, enough to drive FindByHash through
// the real database/sql scan path.

type fakeDriver struct{ rows [][]driver.Value }

func (d *fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{rows: d.rows}, nil }

type fakeConn struct{ rows [][]driver.Value }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, errors.New("not supported") }

func (c *fakeConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &fakeRows{rows: c.rows}, nil
}

type fakeRows struct {
	rows [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string {
	return []string{"id", "created_at", "image_hash", "engine", "model", "result_json", "raw_response"}
}

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

// Register panics on duplicate names, so every test gets its own.
func openFakeDB(t *testing.T, name string, rows [][]driver.Value) *sql.DB {
	t.Helper()
	sql.Register(name, &fakeDriver{rows: rows})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func cachedRow(createdAt time.Time, resultJSON string) []driver.Value {
	return []driver.Value{
		int64(1), createdAt, "imagehash", "watsonx", "test-model",
		[]byte(resultJSON), "raw model text",
	}
}

const goodResultJSON = `{"classifications":[{"hs_code":"0901.21.00","stat_suffix":"49","confidence_score":84}],"not_in_document":false}`

func TestFindByHashFreshRow(t *testing.T) {
	db := openFakeDB(t, "classcache-fresh", [][]driver.Value{
		cachedRow(time.Now().Add(-1*time.Hour), goodResultJSON),
	})
	repo := NewClassificationRepo(db)

	row, err := repo.FindByHash(context.Background(), "imagehash", "watsonx", "test-model", 24*time.Hour)
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if len(row.Result.Classifications) != 1 || row.Result.Classifications[0].HSCode != "0901.21.00" {
		t.Fatalf("result = %+v", row.Result)
	}
	if row.Result.RawResponse != "raw model text" {
		t.Errorf("raw response = %q", row.Result.RawResponse)
	}
}

func TestFindByHashStaleRowIsMiss(t *testing.T) {
	db := openFakeDB(t, "classcache-stale", [][]driver.Value{
		cachedRow(time.Now().Add(-48*time.Hour), goodResultJSON),
	})
	repo := NewClassificationRepo(db)

	if _, err := repo.FindByHash(context.Background(), "imagehash", "watsonx", "test-model", 24*time.Hour); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale row: err = %v, want ErrNotFound", err)
	}
}

func TestFindByHashBrokenJSONIsMiss(t *testing.T) {
	db := openFakeDB(t, "classcache-broken", [][]driver.Value{
		cachedRow(time.Now().Add(-1*time.Hour), `{not json at all`),
	})
	repo := NewClassificationRepo(db)

	if _, err := repo.FindByHash(context.Background(), "imagehash", "watsonx", "test-model", 24*time.Hour); !errors.Is(err, ErrNotFound) {
		t.Fatalf("broken row: err = %v, want ErrNotFound", err)
	}
}

func TestFindByHashNoRows(t *testing.T) {
	db := openFakeDB(t, "classcache-empty", nil)
	repo := NewClassificationRepo(db)

	if _, err := repo.FindByHash(context.Background(), "imagehash", "watsonx", "test-model", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty table: err = %v, want ErrNotFound", err)
	}
}
