// Package entity holds the building blocks shared by every stored record.
package entity

import (
	"context"
	"time"

	"stationdesk/internal/core/id"
)

// Validatable is implemented by records that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks record invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Record is the contract the generic record service and repositories work with.
type Record interface {
	Validatable
	GetID() id.ID
	GetVersion() int
	SetVersion(v int)
	Stamp(userID string, now time.Time, creating bool)
	Base() *BaseRecord
}

// BaseRecord contains common fields for all stored records.
type BaseRecord struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// DeletionMark indicates soft-deleted record
	DeletionMark bool `db:"deletion_mark" json:"deletion_mark"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy string    `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updated_by,omitempty"`
}

// NewBaseRecord creates a new BaseRecord with generated ID.
func NewBaseRecord() BaseRecord {
	now := time.Now().UTC()
	return BaseRecord{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Base exposes the embedded audit fields to generic code.
func (b *BaseRecord) Base() *BaseRecord { return b }

func (b *BaseRecord) GetID() id.ID { return b.ID }
func (b *BaseRecord) GetVersion() int { return b.Version }
func (b *BaseRecord) SetVersion(v int) { b.Version = v }
func (b *BaseRecord) MarkDeleted() { b.DeletionMark = true }
func (b *BaseRecord) IsDeleted() bool { return b.DeletionMark }

// Stamp fills audit fields. On create both pairs are set.
func (b *BaseRecord) Stamp(userID string, now time.Time, creating bool) {
	if creating {
		if id.IsNil(b.ID) {
			b.ID = id.New()
		}
		if b.Version == 0 {
			b.Version = 1
		}
		b.CreatedAt = now
		b.CreatedBy = userID
	}
	b.UpdatedAt = now
	b.UpdatedBy = userID
}
