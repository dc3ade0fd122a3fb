package models

import (
	"time"

	"spendwise/internal/uuid"

	"gorm.io/gorm"
)

// InsightType classifies an insight.
type InsightType string

const (
	InsightTypeAlert          InsightType = "alert"
	InsightTypeGoal           InsightType = "goal"
	InsightTypeWarning        InsightType = "warning"
	InsightTypeRecommendation InsightType = "recommendation"
)

// Valid reports whether t is a known insight type.
func (t InsightType) Valid() bool {
	switch t {
	case InsightTypeAlert, InsightTypeGoal, InsightTypeWarning, InsightTypeRecommendation:
		return true
	}
	return false
}

// InsightPriority is the urgency of an insight.
type InsightPriority string

const (
	InsightPriorityLow    InsightPriority = "low"
	InsightPriorityMedium InsightPriority = "medium"
	InsightPriorityHigh   InsightPriority = "high"
)

// Valid reports whether p is a known priority.
func (p InsightPriority) Valid() bool {
	switch p {
	case InsightPriorityLow, InsightPriorityMedium, InsightPriorityHigh:
		return true
	}
	return false
}

// ReadFlag is the persisted read state of an insight, "true" or "false".
type ReadFlag string

const (
	ReadFlagFalse ReadFlag = "false"
	ReadFlagTrue  ReadFlag = "true"
)

// Insight is a generated observation about a user's spending.
// Insights are append-only apart from the one-way read transition, so they
// carry no UpdatedAt.
type Insight struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index:idx_insights_user_created,priority:1" json:"userId"`
	Type        InsightType     `gorm:"size:20;not null" json:"type"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Priority    InsightPriority `gorm:"size:10;not null;default:'medium'" json:"priority"`
	IsRead      ReadFlag        `gorm:"size:5;not null;default:'false'" json:"isRead"`
	CreatedAt   time.Time       `gorm:"index:idx_insights_user_created,priority:2" json:"createdAt"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (i *Insight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New()
	}
	return nil
}
