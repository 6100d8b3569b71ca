package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-collection-api/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Create(ctx context.Context, collection string, fields map[string]any) (model.Record, error) {
	args := m.Called(ctx, collection, fields)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) List(ctx context.Context, collection string) ([]model.Record, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordStore) Get(ctx context.Context, collection string, id int64) (model.Record, error) {
	args := m.Called(ctx, collection, id)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) Update(ctx context.Context, collection string, id int64, fields map[string]any) (model.Record, error) {
	args := m.Called(ctx, collection, id, fields)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordStore) Delete(ctx context.Context, collection string, id int64) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}
