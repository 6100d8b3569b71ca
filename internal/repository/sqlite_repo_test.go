package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-collection-api/internal/model"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

var (
	userColumns   = []string{"id", "username", "password_hash", "role", "created_at", "updated_at"}
	recordColumns = []string{"id", "collection", "fields", "created_at", "updated_at"}
)

func TestSQLiteUserCreate(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectExec(`INSERT INTO users \(username, password_hash, role, created_at, updated_at\)`).
		WithArgs("user", "hash", "admin", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	created, err := repo.Create(context.Background(), model.User{Username: " user ", PasswordHash: "hash", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "user", created.Username)
}

func TestSQLiteUserCreateDuplicate(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(errors.New("UNIQUE constraint failed: users.username"))

	_, err := repo.Create(context.Background(), model.User{Username: "user", PasswordHash: "hash", Role: "user"})
	require.ErrorIs(t, err, model.ErrUsernameTaken)
}

func TestSQLiteUserFindByUsername(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteUserRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at\s+FROM users WHERE username = \? COLLATE NOCASE`).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(3), "user", "hash", "editor", now, now))

	u, err := repo.FindByUsername(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "editor", u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestSQLiteUserFindByUsernameMissing(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestSQLiteUserFindByIDDBError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs(int64(9)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.FindByID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrUserNotFound)
	assert.Contains(t, err.Error(), "find user by id")
}

func TestSQLiteRecordCreate(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)

	mock.ExpectExec(`INSERT INTO records \(collection, fields, created_at, updated_at\)`).
		WithArgs("food", `{"name":"Strawberry"}`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	record, err := repo.Create(context.Background(), "food", map[string]any{"name": "Strawberry", "id": 3})
	require.NoError(t, err)
	assert.Equal(t, int64(11), record.ID)
	assert.Equal(t, "food", record.Collection)
	assert.Equal(t, map[string]any{"name": "Strawberry"}, record.Fields)
}

func TestSQLiteRecordList(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM records WHERE collection = \? ORDER BY id`).
		WithArgs("food").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(int64(1), "food", `{"name":"apple"}`, now, now).
			AddRow(int64(2), "food", `{"name":"pear","calories":57}`, now, now))

	records, err := repo.List(context.Background(), "food")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "apple", records[0].Fields["name"])
	assert.Equal(t, float64(57), records[1].Fields["calories"])
}

func TestSQLiteRecordGetMissing(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)

	mock.ExpectQuery(`FROM records WHERE collection = \? AND id = \?`).
		WithArgs("food", int64(5)).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := repo.Get(context.Background(), "food", 5)
	require.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestSQLiteRecordUpdateMerges(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM records WHERE collection = \? AND id = \?`).
		WithArgs("food", int64(4)).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(int64(4), "food", `{"name":"apple","calories":52}`, now, now))
	mock.ExpectExec(`UPDATE records SET fields = \?, updated_at = \? WHERE collection = \? AND id = \?`).
		WithArgs(`{"calories":60,"name":"apple"}`, sqlmock.AnyArg(), "food", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	record, err := repo.Update(context.Background(), "food", 4, map[string]any{"calories": 60, "id": 99})
	require.NoError(t, err)
	assert.Equal(t, int64(4), record.ID)
	assert.Equal(t, "apple", record.Fields["name"])
	assert.Equal(t, 60, record.Fields["calories"])
}

func TestSQLiteRecordUpdateMissingRollsBack(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM records WHERE collection = \? AND id = \?`).
		WithArgs("food", int64(4)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "food", 4, map[string]any{"calories": 60})
	require.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestSQLiteRecordDelete(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewSQLiteRecordRepository(db)

	mock.ExpectExec(`DELETE FROM records WHERE collection = \? AND id = \?`).
		WithArgs("food", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM records WHERE collection = \? AND id = \?`).
		WithArgs("food", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "food", 4))
	require.ErrorIs(t, repo.Delete(context.Background(), "food", 4), model.ErrRecordNotFound)
}
