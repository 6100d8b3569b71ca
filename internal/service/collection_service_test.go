package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-collection-api/internal/model"
	"go-collection-api/internal/repository"
	"go-collection-api/pkg/apierror"
)

func TestCollectionLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewCollectionService(repository.NewMemoryRecordStore(), nil)

	created, err := svc.Create(ctx, "food", map[string]any{"name": "Strawberry", "calories": 50, "type": "fruit"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := svc.Get(ctx, "food", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Fields, got.Fields)

	updated, err := svc.Update(ctx, "food", created.ID, map[string]any{"calories": 55})
	require.NoError(t, err)
	assert.Equal(t, 55, updated.Fields["calories"])
	assert.Equal(t, "fruit", updated.Fields["type"])

	require.NoError(t, svc.Delete(ctx, "food", created.ID))

	_, err = svc.Get(ctx, "food", created.ID)
	requireAPIError(t, err, apierror.CodeNotFound)
	err = svc.Delete(ctx, "food", created.ID)
	requireAPIError(t, err, apierror.CodeNotFound)
}

func TestCollectionCreateRejectsNilBody(t *testing.T) {
	t.Parallel()

	svc := NewCollectionService(repository.NewMemoryRecordStore(), nil)

	_, err := svc.Create(context.Background(), "food", nil)
	requireAPIError(t, err, apierror.CodeBadRequest)

	_, err = svc.Update(context.Background(), "food", 1, nil)
	requireAPIError(t, err, apierror.CodeBadRequest)
}

func TestCollectionNameValidation(t *testing.T) {
	t.Parallel()

	svc := NewCollectionService(repository.NewMemoryRecordStore(), nil)

	for _, name := range []string{"", "1food", "food items", "../etc", "a;drop"} {
		requireAPIError(t, svc.ValidateCollection(name), apierror.CodeBadRequest)
	}
	for _, name := range []string{"food", "clothes", "Food_2", "line-items"} {
		assert.NoError(t, svc.ValidateCollection(name), name)
	}
}

func TestCollectionAllowlist(t *testing.T) {
	t.Parallel()

	svc := NewCollectionService(repository.NewMemoryRecordStore(), []string{"food", " Clothes "})

	assert.NoError(t, svc.ValidateCollection("food"))
	assert.NoError(t, svc.ValidateCollection("clothes"))
	requireAPIError(t, svc.ValidateCollection("weapons"), apierror.CodeNotFound)

	_, err := svc.List(context.Background(), "weapons")
	requireAPIError(t, err, apierror.CodeNotFound)
}

func TestCollectionStorageErrorsAreInternal(t *testing.T) {
	t.Parallel()

	store := &repository.MockRecordStore{}
	store.On("Get", mock.Anything, "food", int64(3)).Return(model.Record{}, errors.New("disk full"))
	store.On("List", mock.Anything, "food").Return(nil, errors.New("disk full"))
	svc := NewCollectionService(store, nil)

	_, err := svc.Get(context.Background(), "food", 3)
	require.Error(t, err)
	var apiErr *apierror.APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "get food record 3")

	_, err = svc.List(context.Background(), "food")
	require.Error(t, err)
	store.AssertExpectations(t)
}

func TestCollectionInvalidNameNeverReachesStore(t *testing.T) {
	t.Parallel()

	store := &repository.MockRecordStore{}
	svc := NewCollectionService(store, nil)

	_, err := svc.Create(context.Background(), "bad name", map[string]any{})
	requireAPIError(t, err, apierror.CodeBadRequest)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
