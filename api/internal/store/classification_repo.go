package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"hs-classifier/api/internal/vision"
)

var ErrNotFound = sql.ErrNoRows

// ClassificationRepo caches model classifications keyed on the image content
// hash plus the engine/model that produced them. Watsonx calls take 20-30s;
// a repeat upload of the same image should not pay that twice.
type ClassificationRepo struct{ DB *sql.DB }

func NewClassificationRepo(db *sql.DB) *ClassificationRepo { return &ClassificationRepo{DB: db} }

const schema = `
create table if not exists classifications (
  id            bigserial primary key,
  created_at    timestamptz not null default now(),
  image_hash    text not null,
  engine        text not null,
  model         text not null,
  top_code      text not null default '',
  confidence    double precision not null default 0,
  result_json   jsonb not null,
  raw_response  text not null default '',
  unique (image_hash, engine, model)
)`

// EnsureSchema creates the cache table when it does not exist yet.
func (r *ClassificationRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

type ClassifiedRow struct {
	ID        int64
	CreatedAt time.Time
	ImageHash string
	Engine    string
	Model     string
	Result    vision.ClassificationResult
}

// FindByHash returns the newest cached result for (image_hash, engine, model).
// With maxAge > 0, stale rows count as misses.
func (r *ClassificationRepo) FindByHash(ctx context.Context, imageHash, engine, model string, maxAge time.Duration) (*ClassifiedRow, error) {
	const q = `
select id, created_at, image_hash, engine, model, result_json, raw_response
from classifications
where image_hash = $1 and engine = $2 and model = $3
order by created_at desc
limit 1`
	row := r.DB.QueryRowContext(ctx, q, imageHash, engine, model)

	var (
		out ClassifiedRow
		js  []byte
		raw string
	)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.ImageHash, &out.Engine, &out.Model, &js, &raw); err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(out.CreatedAt) > maxAge {
		return nil, ErrNotFound
	}
	if err := json.Unmarshal(js, &out.Result); err != nil {
		// broken cache row reads as a miss
		return nil, ErrNotFound
	}
	out.Result.RawResponse = raw
	return &out, nil
}

// Upsert stores a classification, replacing any previous row for the key.
func (r *ClassificationRepo) Upsert(ctx context.Context, imageHash, engine, model string, res vision.ClassificationResult) error {
	js, err := json.Marshal(res)
	if err != nil {
		return err
	}
	var topCode string
	var confidence float64
	if len(res.Classifications) > 0 {
		topCode = res.Classifications[0].HSCode
		confidence = res.Classifications[0].Confidence
	}
	const q = `
insert into classifications (image_hash, engine, model, top_code, confidence, result_json, raw_response)
values ($1,$2,$3,$4,$5,$6,$7)
on conflict (image_hash, engine, model) do update
set created_at = now(),
    top_code = excluded.top_code,
    confidence = excluded.confidence,
    result_json = excluded.result_json,
    raw_response = excluded.raw_response`
	_, err = r.DB.ExecContext(ctx, q, imageHash, engine, model, topCode, confidence, js, res.RawResponse)
	return err
}

// PurgeOlderThan drops old cache rows so the table does not grow unbounded.
func (r *ClassificationRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	res, err := r.DB.ExecContext(ctx, `delete from classifications where created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
