package services

import (
	"context"
	"testing"

	"spendwise/internal/models"
	"spendwise/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	store, db := testutil.SetupTestStore(t)
	svc := NewAuditService(store)
	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, nil, "5.00", "2024-01-01")

	svc.Log(context.Background(), user.ID, AuditActionCreate, AuditResourceExpense, expense.ID, "10.0.0.1", map[string]interface{}{
		"amount": "5.00",
	})

	var entries []models.AuditLog
	if err := db.Where("user_id = ?", user.ID).Find(&entries).Error; err != nil {
		t.Fatalf("failed to load audit log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != "create" || e.ResourceType != "expense" || e.ResourceID != expense.ID {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Changes != `{"amount":"5.00"}` {
		t.Errorf("unexpected changes: %s", e.Changes)
	}
}

func TestAuditLogCancelledContext(t *testing.T) {
	store, db := testutil.SetupTestStore(t)
	svc := NewAuditService(store)
	user := testutil.CreateTestUser(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Log(ctx, user.ID, AuditActionDelete, AuditResourceBudget, user.ID, "", nil)

	var count int64
	db.Model(&models.AuditLog{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected entry to be written despite cancellation, got %d", count)
	}
}
