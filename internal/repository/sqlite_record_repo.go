package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-collection-api/internal/model"
)

type SQLiteRecordRepository struct {
	db *sql.DB
}

func NewSQLiteRecordRepository(db *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db}
}

func (r *SQLiteRecordRepository) Create(ctx context.Context, collection string, fields map[string]any) (model.Record, error) {
	record := model.Record{Collection: collection, Fields: model.CloneFields(fields)}
	payload, err := json.Marshal(record.Fields)
	if err != nil {
		return model.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (collection, fields, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		collection, string(payload), now, now)
	if err != nil {
		return model.Record{}, fmt.Errorf("create record: %w", err)
	}

	record.ID, err = res.LastInsertId()
	if err != nil {
		return model.Record{}, fmt.Errorf("create record: %w", err)
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	return record, nil
}

func (r *SQLiteRecordRepository) List(ctx context.Context, collection string) ([]model.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, collection, fields, created_at, updated_at
		 FROM records WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0)
	for rows.Next() {
		record, err := scanSQLRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *SQLiteRecordRepository) Get(ctx context.Context, collection string, id int64) (model.Record, error) {
	return r.get(ctx, r.db, collection, id)
}

// Update reads and rewrites the row inside one transaction so concurrent
// writers to the same id never interleave.
func (r *SQLiteRecordRepository) Update(ctx context.Context, collection string, id int64, fields map[string]any) (model.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Record{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	record, err := r.get(ctx, tx, collection, id)
	if err != nil {
		return model.Record{}, err
	}

	record.Fields = mergeFields(record.Fields, fields)
	record.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(record.Fields)
	if err != nil {
		return model.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET fields = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(payload), record.UpdatedAt, collection, id); err != nil {
		return model.Record{}, fmt.Errorf("update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Record{}, fmt.Errorf("commit update: %w", err)
	}
	return record, nil
}

func (r *SQLiteRecordRepository) Delete(ctx context.Context, collection string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if affected == 0 {
		return model.ErrRecordNotFound
	}
	return nil
}

type sqlQueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteRecordRepository) get(ctx context.Context, q sqlQueryRower, collection string, id int64) (model.Record, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, collection, fields, created_at, updated_at
		 FROM records WHERE collection = ? AND id = ?`, collection, id)

	record, err := scanSQLRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, model.ErrRecordNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

func scanSQLRecord(row sqlScanner) (model.Record, error) {
	var (
		record model.Record
		raw    string
	)
	if err := row.Scan(&record.ID, &record.Collection, &raw, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return model.Record{}, err
	}

	fields, err := decodeFields([]byte(raw))
	if err != nil {
		return model.Record{}, err
	}
	record.Fields = fields
	return record, nil
}
