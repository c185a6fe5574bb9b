package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftModel represents the database model for draft load proposals. The
// extracted load body is stored verbatim as JSON.
type DraftModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Source         string     `gorm:"type:varchar(100);not null"`
	SourceRef      string     `gorm:"type:varchar(255);not null;index"`
	Confidence     float64    `gorm:"type:decimal(4,3);not null;default:0"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Payload        []byte     `gorm:"type:jsonb;not null"`
	ApprovedLoadID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (DraftModel) TableName() string {
	return "load_drafts"
}
