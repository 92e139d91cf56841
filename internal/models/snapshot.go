package models

import "time"

// Snapshot is a full copy of the ledger state. Collections keep insertion
// order.
type Snapshot struct {
	Students   []Student       `json:"students"`
	Courses    []Course        `json:"courses"`
	Mentors    []Mentor        `json:"mentors"`
	Classrooms []Classroom     `json:"classrooms"`
	Invoices   []Invoice       `json:"invoices"`
	Payments   []PaymentRecord `json:"payments"`
	ExportedAt time.Time       `json:"exported_at"`
}

// SavedSnapshot is a snapshot persisted to the database.
type SavedSnapshot struct {
	ID        string    `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	Payload   []byte    `db:"payload" json:"-"`
	SizeBytes int       `db:"size_bytes" json:"size_bytes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
