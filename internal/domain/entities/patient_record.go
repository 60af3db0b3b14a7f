package entities

import (
	"time"
	"unicode/utf8"
)

// NoRecordsText is returned in place of record text for unknown patients.
const NoRecordsText = "No health records found."

// PatientRecord holds the extracted text of one patient's health document.
type PatientRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Text      string    `json:"-"`
	Source    string    `json:"source"`
	Pages     int       `json:"pages"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// Characters returns the record length in characters, not bytes.
func (r *PatientRecord) Characters() int {
	return utf8.RuneCountInString(r.Text)
}

// RecordSummary is the metadata view of a stored record.
type RecordSummary struct {
	PatientID  string    `json:"patient_id"`
	Characters int       `json:"characters"`
	Pages      int       `json:"pages"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Summary returns the record metadata without its text.
func (r *PatientRecord) Summary() RecordSummary {
	return RecordSummary{
		PatientID:  r.PatientID,
		Characters: r.Characters(),
		Pages:      r.Pages,
		Source:     r.Source,
		LoadedAt:   r.LoadedAt,
	}
}
