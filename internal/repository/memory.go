package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-collection-api/internal/model"
)

type MemoryUserStore struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]model.User
	byUsername map[string]int64
	order      []int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:       map[int64]model.User{},
		byUsername: map[string]int64{},
	}
}

func (s *MemoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	key := usernameKey(user.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[key]; exists {
		return model.User{}, model.ErrUsernameTaken
	}

	now := time.Now().UTC()
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	s.byID[user.ID] = user
	s.byUsername[key] = user.ID
	s.order = append(s.order, user.ID)

	return user, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUsername[usernameKey(username)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}

	return s.byID[id], nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byID[id]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}

	return user, nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.byID[id])
	}

	return users, nil
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type memoryCollection struct {
	records map[int64]model.Record
	order   []int64
}

// MemoryRecordStore keeps every collection in process memory. Ids come from
// one counter shared by all collections, so an id is never handed out twice.
type MemoryRecordStore struct {
	mu          sync.RWMutex
	nextID      int64
	collections map[string]*memoryCollection
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{collections: map[string]*memoryCollection{}}
}

func (s *MemoryRecordStore) Create(_ context.Context, collection string, fields map[string]any) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{records: map[int64]model.Record{}}
		s.collections[collection] = c
	}

	now := time.Now().UTC()
	s.nextID++
	record := model.Record{
		ID:         s.nextID,
		Collection: collection,
		Fields:     model.CloneFields(fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.records[record.ID] = record
	c.order = append(c.order, record.ID)

	return copyRecord(record), nil
}

func (s *MemoryRecordStore) List(_ context.Context, collection string) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []model.Record{}, nil
	}

	records := make([]model.Record, 0, len(c.order))
	for _, id := range c.order {
		records = append(records, copyRecord(c.records[id]))
	}

	return records, nil
}

func (s *MemoryRecordStore) Get(_ context.Context, collection string, id int64) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.lookupLocked(collection, id)
	if !ok {
		return model.Record{}, model.ErrRecordNotFound
	}

	return copyRecord(record), nil
}

func (s *MemoryRecordStore) Update(_ context.Context, collection string, id int64, fields map[string]any) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.lookupLocked(collection, id)
	if !ok {
		return model.Record{}, model.ErrRecordNotFound
	}

	record.Fields = mergeFields(record.Fields, fields)
	record.UpdatedAt = time.Now().UTC()
	s.collections[collection].records[id] = record

	return copyRecord(record), nil
}

func (s *MemoryRecordStore) Delete(_ context.Context, collection string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookupLocked(collection, id); !ok {
		return model.ErrRecordNotFound
	}

	c := s.collections[collection]
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryRecordStore) lookupLocked(collection string, id int64) (model.Record, bool) {
	c, ok := s.collections[collection]
	if !ok {
		return model.Record{}, false
	}

	record, ok := c.records[id]
	return record, ok
}

func copyRecord(record model.Record) model.Record {
	record.Fields = model.CloneFields(record.Fields)
	return record
}
