package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TableName string      `gorm:"index" json:"table_name"`
	RecordID  uuid.UUID   `gorm:"index" json:"record_id"`
	Action    AuditAction `json:"action"`
	OldData   *string     `gorm:"type:jsonb" json:"old_data,omitempty"`
	NewData   *string     `gorm:"type:jsonb" json:"new_data,omitempty"`
	ChangedBy *uuid.UUID  `json:"changed_by,omitempty"`
	ChangedAt time.Time   `json:"changed_at"`
}
