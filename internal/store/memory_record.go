// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/MKhiriev/go-salon-keeper/models"
)

// memoryRecordRepository keeps records in a map. It honours the same
// atomicity and compare-and-swap contract as the SQL repository and is used
// with the "memory" storage driver and in tests.
type memoryRecordRepository struct {
	mu      sync.RWMutex
	records map[string]models.StoredRecord
}

// NewMemoryRecordRepository returns an empty in-memory [RecordRepository].
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{records: make(map[string]models.StoredRecord)}
}

func (m *memoryRecordRepository) InsertRecords(_ context.Context, records []models.StoredRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := m.records[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrRecordsNotSaved, rec.ID)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrRecordsNotSaved, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}

	for _, rec := range records {
		cp, err := cloneRecord(rec)
		if err != nil {
			return err
		}
		m.records[rec.ID] = cp
	}
	return nil
}

func (m *memoryRecordRepository) GetRecord(_ context.Context, id string) (models.StoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return models.StoredRecord{}, ErrRecordNotFound
	}
	return cloneRecord(rec)
}

func (m *memoryRecordRepository) FindRecords(_ context.Context, dataType models.DataType, filter models.RecordFilter) ([]models.StoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]models.StoredRecord, 0)
	for _, rec := range m.records {
		if rec.DataType != dataType || !matchesFilter(rec, filter) {
			continue
		}
		cp, err := cloneRecord(rec)
		if err != nil {
			return nil, err
		}
		found = append(found, cp)
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i].Metadata.CreatedAt, found[j].Metadata.CreatedAt
		if a.Equal(b) {
			return found[i].ID > found[j].ID
		}
		return a.After(b)
	})

	if filter.Limit > 0 && uint64(len(found)) > filter.Limit {
		found = found[:filter.Limit]
	}
	return found, nil
}

func matchesFilter(rec models.StoredRecord, filter models.RecordFilter) bool {
	if filter.BusinessID != nil {
		if rec.Metadata.BusinessID == nil || *rec.Metadata.BusinessID != *filter.BusinessID {
			return false
		}
	}
	if filter.CreatedBy != "" && rec.Metadata.CreatedBy != filter.CreatedBy {
		return false
	}
	if filter.CreatedFrom != nil && rec.Metadata.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && rec.Metadata.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func (m *memoryRecordRepository) UpdateRecord(_ context.Context, record models.StoredRecord, expectedVersion int64, entry models.AuditEntry) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[record.ID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	if current.Metadata.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	cp, err := cloneRecord(record)
	if err != nil {
		return nil, err
	}
	cp.DataType = current.DataType
	cp.Metadata.CreatedBy = current.Metadata.CreatedBy
	cp.Metadata.CreatedAt = current.Metadata.CreatedAt
	cp.AuditTrail = models.AppendAuditEntry(current.AuditTrail, entry)
	m.records[record.ID] = cp
	return append([]models.AuditEntry(nil), cp.AuditTrail...), nil
}

func (m *memoryRecordRepository) AppendAuditEntry(_ context.Context, id string, entry models.AuditEntry) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	rec.AuditTrail = models.AppendAuditEntry(rec.AuditTrail, entry)
	m.records[id] = rec
	return append([]models.AuditEntry(nil), rec.AuditTrail...), nil
}

func (m *memoryRecordRepository) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

// cloneRecord deep-copies rec through JSON so callers never share slices
// with the stored value.
func cloneRecord(rec models.StoredRecord) (models.StoredRecord, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return models.StoredRecord{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	var cp models.StoredRecord
	if err = json.Unmarshal(b, &cp); err != nil {
		return models.StoredRecord{}, fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return cp, nil
}
