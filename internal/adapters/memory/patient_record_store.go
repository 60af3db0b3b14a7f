package memory

import (
	"sync"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/repositories"
)

// PatientRecordStore keeps patient records in process memory. Records are
// replaced whole, never mutated in place.
type PatientRecordStore struct {
	mu      sync.RWMutex
	records map[string]*entities.PatientRecord
}

// NewPatientRecordStore creates an empty record store
func NewPatientRecordStore() *PatientRecordStore {
	return &PatientRecordStore{
		records: make(map[string]*entities.PatientRecord),
	}
}

var _ repositories.PatientRecordRepository = (*PatientRecordStore)(nil)

// Put stores a copy of record under its patient ID
func (s *PatientRecordStore) Put(record *entities.PatientRecord) {
	if record == nil {
		return
	}
	stored := *record

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[stored.PatientID] = &stored
}

// Get returns the record text for patientID
func (s *PatientRecordStore) Get(patientID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[patientID]
	if !ok {
		return entities.NoRecordsText
	}
	return record.Text
}

// Lookup returns a copy of the stored record
func (s *PatientRecordStore) Lookup(patientID string) (*entities.PatientRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[patientID]
	if !ok {
		return nil, false
	}
	found := *record
	return &found, true
}

// Count returns the number of stored records
func (s *PatientRecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
