package repositories

import (
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/entities"
)

// PatientRecordRepository defines the interface for patient record storage.
// Implementations must be safe for concurrent use.
type PatientRecordRepository interface {
	// Put stores a record, replacing any record with the same patient ID
	Put(record *entities.PatientRecord)

	// Get returns the record text, or entities.NoRecordsText when absent
	Get(patientID string) string

	// Lookup returns the stored record
	Lookup(patientID string) (*entities.PatientRecord, bool)

	// Count returns the number of stored records
	Count() int
}
