package services

import (
	"context"
	"encoding/json"

	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/repository"
)

// Audit actions and resource types.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"

	AuditResourceExpense  = "expense"
	AuditResourceCategory = "category"
	AuditResourceBudget   = "budget"
)

// auditService handles audit log recording.
type auditService struct {
	logs repository.AuditLogRepository
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(store *repository.Store) AuditServicer {
	return &auditService{logs: store.AuditLogs}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	// The entry outlives a cancelled request.
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
