package store

import (
	"context"
	"database/sql"

	"deepfake-detector/api/internal/analysis"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// AnalysisRepo is the analysis log: one row per successful analysis, metadata only.
type AnalysisRepo struct{ DB *sql.DB }

func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{DB: db} }

func (r *AnalysisRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists analysis_log (
	id          bigserial primary key,
	created_at  timestamptz not null default now(),
	sha256      text not null,
	mime_type   text not null,
	size_bytes  integer not null,
	model       text not null,
	verdict     text not null,
	confidence  text not null
);
create index if not exists analysis_log_created_at_idx on analysis_log (created_at desc);
create index if not exists analysis_log_sha256_idx on analysis_log (sha256)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// Record implements analysis.Recorder.
func (r *AnalysisRepo) Record(ctx context.Context, rec analysis.Record) error {
	const q = `
insert into analysis_log(created_at, sha256, mime_type, size_bytes, model, verdict, confidence)
values ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.DB.ExecContext(ctx, q,
		rec.CreatedAt, rec.SHA256, rec.MIMEType, rec.Size, rec.Model, string(rec.Verdict), rec.Confidence)
	return err
}

// Recent returns the newest records first. limit is clamped to 1..MaxRecentLimit.
func (r *AnalysisRepo) Recent(ctx context.Context, limit int) ([]analysis.Record, error) {
	const q = `
select created_at, sha256, mime_type, size_bytes, model, verdict, confidence
from analysis_log
order by created_at desc, id desc
limit $1`
	rows, err := r.DB.QueryContext(ctx, q, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analysis.Record, 0, ClampLimit(limit))
	for rows.Next() {
		var (
			rec     analysis.Record
			verdict string
		)
		if err := rows.Scan(&rec.CreatedAt, &rec.SHA256, &rec.MIMEType, &rec.Size,
			&rec.Model, &verdict, &rec.Confidence); err != nil {
			return nil, err
		}
		rec.Verdict = analysis.Verdict(verdict)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}
