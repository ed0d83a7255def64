package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"mercator-hq/galileo/pkg/archive"
)

// MemoryStorage implements the archive.Storage interface using an
// in-memory map. It is intended for tests and ephemeral use; records
// do not survive a restart.
type MemoryStorage struct {
	records map[string]*archive.QueryRecord
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*archive.QueryRecord),
	}
}

// Store persists a query record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *archive.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to keep later caller mutations out of the store
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves query records matching the filter.
func (s *MemoryStorage) Query(ctx context.Context, filter *archive.Filter) ([]*archive.QueryRecord, error) {
	s.mu.RLock()
	results := s.collect(filter)
	s.mu.RUnlock()

	sortRecords(results, filter)

	return paginate(results, filter), nil
}

// QueryStream returns a channel of query records. The snapshot is taken
// under the lock, then streamed without holding it.
func (s *MemoryStorage) QueryStream(ctx context.Context, filter *archive.Filter) (<-chan *archive.QueryRecord, <-chan error, error) {
	recordsCh := make(chan *archive.QueryRecord, 100)
	errCh := make(chan error, 1)

	s.mu.RLock()
	results := s.collect(filter)
	s.mu.RUnlock()

	sortRecords(results, filter)
	results = paginate(results, filter)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		for _, record := range results {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of query records matching the filter.
func (s *MemoryStorage) Count(ctx context.Context, filter *archive.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			count++
		}
	}

	return count, nil
}

// Delete removes query records matching the filter.
func (s *MemoryStorage) Delete(ctx context.Context, filter *archive.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	toDelete := []string{}
	for id, record := range s.records {
		if matchesFilter(record, filter) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.records, id)
	}

	return int64(len(toDelete)), nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*archive.QueryRecord)
	return nil
}

// collect returns copies of all records matching the filter.
// The caller must hold at least a read lock.
func (s *MemoryStorage) collect(filter *archive.Filter) []*archive.QueryRecord {
	results := []*archive.QueryRecord{}
	for _, record := range s.records {
		if matchesFilter(record, filter) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}
	return results
}

// matchesFilter checks if a record matches the filter.
func matchesFilter(record *archive.QueryRecord, filter *archive.Filter) bool {
	if filter.StartTime != nil && record.ExecutedAt.Before(*filter.StartTime) {
		return false
	}
	if filter.EndTime != nil && record.ExecutedAt.After(*filter.EndTime) {
		return false
	}

	if filter.Endpoint != "" && record.Endpoint != filter.Endpoint {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	if filter.ErrorType != "" && record.ErrorType != filter.ErrorType {
		return false
	}

	return true
}

// sortRecords orders the records per the filter's SortBy and SortOrder.
func sortRecords(records []*archive.QueryRecord, filter *archive.Filter) {
	asc := strings.EqualFold(filter.SortOrder, "asc")

	var less func(a, b *archive.QueryRecord) bool
	switch filter.SortBy {
	case "duration":
		less = func(a, b *archive.QueryRecord) bool { return a.Duration < b.Duration }
	case "endpoint":
		less = func(a, b *archive.QueryRecord) bool { return a.Endpoint < b.Endpoint }
	default:
		less = func(a, b *archive.QueryRecord) bool { return a.ExecutedAt.Before(b.ExecutedAt) }
	}

	sort.Slice(records, func(i, j int) bool {
		if asc {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

// paginate applies the filter's offset and limit.
func paginate(records []*archive.QueryRecord, filter *archive.Filter) []*archive.QueryRecord {
	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return []*archive.QueryRecord{}
		}
		records = records[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records
}

// Clear removes all records from storage (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*archive.QueryRecord)
}

// GetByID retrieves a single query record by ID (for testing).
func (s *MemoryStorage) GetByID(id string) *archive.QueryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}

	recordCopy := *record
	return &recordCopy
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
