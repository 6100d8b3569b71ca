// Package repository holds the storage collaborators for credentials and
// collection records, with memory, SQLite and Postgres backends.
package repository

import (
	"context"

	"go-collection-api/internal/model"
)

// UserStore persists credential records. Create assigns the id and fails
// with model.ErrUsernameTaken when the username (case-insensitive) exists.
type UserStore interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// RecordStore persists records of arbitrary named collections. Every write
// to one record is atomic. Missing records yield model.ErrRecordNotFound.
type RecordStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (model.Record, error)
	List(ctx context.Context, collection string) ([]model.Record, error)
	Get(ctx context.Context, collection string, id int64) (model.Record, error)
	// Update merges fields into the stored top-level field bag.
	Update(ctx context.Context, collection string, id int64, fields map[string]any) (model.Record, error)
	Delete(ctx context.Context, collection string, id int64) error
}

func mergeFields(current map[string]any, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(current)+len(patch))
	for key, value := range current {
		merged[key] = value
	}
	for key, value := range patch {
		if key == "id" {
			continue
		}
		merged[key] = value
	}

	return merged
}
