package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go-collection-api/internal/model"
	"go-collection-api/internal/repository"
	"go-collection-api/pkg/apierror"
)

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,62}$`)

// CollectionService dispatches the five record operations to the store for
// any collection name that passes validation.
type CollectionService struct {
	store   repository.RecordStore
	allowed map[string]struct{}
}

// NewCollectionService restricts names to allowed when it is non-empty.
func NewCollectionService(store repository.RecordStore, allowed []string) *CollectionService {
	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	return &CollectionService{store: store, allowed: set}
}

func (s *CollectionService) ValidateCollection(collection string) error {
	if !collectionNamePattern.MatchString(collection) {
		return apierror.BadRequest("invalid collection name", collection)
	}
	if len(s.allowed) == 0 {
		return nil
	}
	if _, ok := s.allowed[strings.ToLower(collection)]; !ok {
		return apierror.NotFound("unknown collection", collection)
	}
	return nil
}

func (s *CollectionService) Create(ctx context.Context, collection string, fields map[string]any) (model.Record, error) {
	if err := s.ValidateCollection(collection); err != nil {
		return model.Record{}, err
	}
	if fields == nil {
		return model.Record{}, apierror.BadRequest("request body must be a JSON object", "")
	}

	record, err := s.store.Create(ctx, collection, fields)
	if err != nil {
		return model.Record{}, fmt.Errorf("create %s record: %w", collection, err)
	}
	return record, nil
}

func (s *CollectionService) List(ctx context.Context, collection string) ([]model.Record, error) {
	if err := s.ValidateCollection(collection); err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", collection, err)
	}
	return records, nil
}

func (s *CollectionService) Get(ctx context.Context, collection string, id int64) (model.Record, error) {
	if err := s.ValidateCollection(collection); err != nil {
		return model.Record{}, err
	}

	record, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return model.Record{}, s.storeError("get", collection, id, err)
	}
	return record, nil
}

func (s *CollectionService) Update(ctx context.Context, collection string, id int64, fields map[string]any) (model.Record, error) {
	if err := s.ValidateCollection(collection); err != nil {
		return model.Record{}, err
	}
	if fields == nil {
		return model.Record{}, apierror.BadRequest("request body must be a JSON object", "")
	}

	record, err := s.store.Update(ctx, collection, id, fields)
	if err != nil {
		return model.Record{}, s.storeError("update", collection, id, err)
	}
	return record, nil
}

func (s *CollectionService) Delete(ctx context.Context, collection string, id int64) error {
	if err := s.ValidateCollection(collection); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, collection, id); err != nil {
		return s.storeError("delete", collection, id, err)
	}
	return nil
}

func (s *CollectionService) storeError(op string, collection string, id int64, err error) error {
	if errors.Is(err, model.ErrRecordNotFound) {
		return apierror.NotFound("record not found", fmt.Sprintf("%s/%d", collection, id))
	}
	return fmt.Errorf("%s %s record %d: %w", op, collection, id, err)
}
