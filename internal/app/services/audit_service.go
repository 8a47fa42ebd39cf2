package services

import (
	"encoding/json"
	"time"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// LogAudit records an admin-side mutation. Audit failures are logged and
// swallowed: a missing audit row must never fail the mutation it describes.
func (s *AuditService) LogAudit(tableName string, recordID uuid.UUID, action models.AuditAction, oldData, newData interface{}, changedBy *uuid.UUID) {
	log := infrastructures.GetLogger()

	var oldDataJSON, newDataJSON *string

	if oldData != nil {
		jsonBytes, err := json.Marshal(oldData)
		if err != nil {
			log.Warnf("failed to marshal audit old data: %v", err)
		} else {
			strJSON := string(jsonBytes)
			oldDataJSON = &strJSON
		}
	}

	if newData != nil {
		jsonBytes, err := json.Marshal(newData)
		if err != nil {
			log.Warnf("failed to marshal audit new data: %v", err)
		} else {
			strJSON := string(jsonBytes)
			newDataJSON = &strJSON
		}
	}

	auditLog := &models.AuditLog{
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldData:   oldDataJSON,
		NewData:   newDataJSON,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	}

	if err := s.db.Create(auditLog).Error; err != nil {
		log.Errorf("failed to write audit log for %s/%s: %v", tableName, recordID, err)
	}
}

func (s *AuditService) GetAuditLogs(tableName string, recordId string, limit int) ([]models.AuditLog, error) {
	recordUUID, err := uuid.Parse(recordId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid record ID format")
	}

	if limit <= 0 {
		limit = 50
	}

	var logs []models.AuditLog
	err = s.db.Where("table_name = ? AND record_id = ?", tableName, recordUUID).
		Order("changed_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}

	return logs, nil
}
