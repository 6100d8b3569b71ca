package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-collection-api/internal/model"
)

type PostgresRecordRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRecordRepository(pool *pgxpool.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

func (r *PostgresRecordRepository) Create(ctx context.Context, collection string, fields map[string]any) (model.Record, error) {
	payload, err := json.Marshal(model.CloneFields(fields))
	if err != nil {
		return model.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO records (collection, fields)
		 VALUES ($1, $2::jsonb)
		 RETURNING id, collection, fields, created_at, updated_at`,
		collection, payload)

	record, err := scanPgRecord(row)
	if err != nil {
		return model.Record{}, fmt.Errorf("create record: %w", err)
	}
	return record, nil
}

func (r *PostgresRecordRepository) List(ctx context.Context, collection string) ([]model.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, collection, fields, created_at, updated_at
		 FROM records WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		record, err := scanPgRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *PostgresRecordRepository) Get(ctx context.Context, collection string, id int64) (model.Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, collection, fields, created_at, updated_at
		 FROM records WHERE collection = $1 AND id = $2`, collection, id)

	record, err := scanPgRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Record{}, model.ErrRecordNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// Update relies on jsonb || for a single-statement top-level merge.
func (r *PostgresRecordRepository) Update(ctx context.Context, collection string, id int64, fields map[string]any) (model.Record, error) {
	payload, err := json.Marshal(model.CloneFields(fields))
	if err != nil {
		return model.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE records SET fields = fields || $3::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2
		 RETURNING id, collection, fields, created_at, updated_at`,
		collection, id, payload)

	record, err := scanPgRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Record{}, model.ErrRecordNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("update record: %w", err)
	}
	return record, nil
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, collection string, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}

func scanPgRecord(row pgx.Row) (model.Record, error) {
	var (
		record model.Record
		raw    []byte
	)
	if err := row.Scan(&record.ID, &record.Collection, &raw, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return model.Record{}, err
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return model.Record{}, err
	}
	record.Fields = fields
	return record, nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record fields: %w", err)
	}
	return fields, nil
}
