package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// mirrorPG replicates the collection into a PostgreSQL table. Each session is
// one pooled connection scoped to the configured schema; every import replaces
// the table contents inside a single transaction so the mirror never holds a
// partial view.
type mirrorPG struct {
	pool      *pgxpool.Pool
	schema    string
	keyPrefix string
}

// NewMirrorPG creates the database mirror. keyPrefix is prepended to the
// domain id to form the sink record key, e.g. "patient:P001".
func NewMirrorPG(pool *pgxpool.Pool, schema, keyPrefix string) Mirror {
	return &mirrorPG{pool: pool, schema: schema, keyPrefix: keyPrefix}
}

func (m *mirrorPG) Connect(ctx context.Context) (MirrorSession, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Release()
		return nil, &ConnectionError{Err: err}
	}
	if _, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{m.schema}.Sanitize()); err != nil {
		conn.Release()
		return nil, &ConnectionError{Err: fmt.Errorf("select schema %s: %w", m.schema, err)}
	}
	return &mirrorSessionPG{conn: conn, keyPrefix: m.keyPrefix}, nil
}

type mirrorSessionPG struct {
	conn      *pgxpool.Conn
	keyPrefix string
}

func (s *mirrorSessionPG) ImportAll(ctx context.Context, col Collection) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return &ImportError{Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM patient`); err != nil {
		return &ImportError{Err: err}
	}

	batch := &pgx.Batch{}
	for id, f := range col {
		batch.Queue(`
			INSERT INTO patient (record_key, patient_id, name, city, age, gender, height, weight, bmi, verdict)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			s.keyPrefix+":"+id, id, f.Name, f.City, f.Age, string(f.Gender), f.Height, f.Weight, f.BMI, f.Verdict,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return &ImportError{Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &ImportError{Err: err}
	}
	return nil
}

func (s *mirrorSessionPG) Close(_ context.Context) error {
	s.conn.Release()
	return nil
}

// EnsureMirrorSchema provisions the mirror schema and table. Used by the
// migrate command before the first serve.
func EnsureMirrorSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	ident := pgx.Identifier{schema}.Sanitize()
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+ident); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.patient (
			record_key TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			city       TEXT NOT NULL,
			age        INTEGER NOT NULL,
			gender     TEXT NOT NULL,
			height     DOUBLE PRECISION NOT NULL,
			weight     DOUBLE PRECISION NOT NULL,
			bmi        DOUBLE PRECISION NOT NULL,
			verdict    TEXT NOT NULL
		)`, ident))
	if err != nil {
		return fmt.Errorf("create table %s.patient: %w", schema, err)
	}
	return nil
}
