package mongorepo

import (
	"fmt"
	"strings"
	"time"

	"spendwise/internal/models"
	"spendwise/internal/types"
)

// Amounts are stored as two-decimal strings and dates as YYYY-MM-DD strings,
// which keeps range filters on dates lexicographic.

type userDoc struct {
	ID                  string     `bson:"_id"`
	Email               string     `bson:"email"`
	Password            string     `bson:"password"`
	FirstName           string     `bson:"firstName"`
	LastName            string     `bson:"lastName"`
	IsActive            bool       `bson:"isActive"`
	RefreshTokenHash    string     `bson:"refreshTokenHash,omitempty"`
	FailedLoginAttempts int        `bson:"failedLoginAttempts"`
	LockedUntil         *time.Time `bson:"lockedUntil,omitempty"`
	LastLoginAt         *time.Time `bson:"lastLoginAt,omitempty"`
	CreatedAt           time.Time  `bson:"createdAt"`
	UpdatedAt           time.Time  `bson:"updatedAt"`
}

func newUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:                  u.ID,
		Email:               strings.ToLower(u.Email),
		Password:            u.Password,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		IsActive:            u.IsActive,
		RefreshTokenHash:    u.RefreshTokenHash,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (d userDoc) model() *models.User {
	u := &models.User{
		Email:               d.Email,
		Password:            d.Password,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		IsActive:            d.IsActive,
		RefreshTokenHash:    d.RefreshTokenHash,
		FailedLoginAttempts: d.FailedLoginAttempts,
		LockedUntil:         d.LockedUntil,
		LastLoginAt:         d.LastLoginAt,
	}
	u.ID, u.CreatedAt, u.UpdatedAt = d.ID, d.CreatedAt, d.UpdatedAt
	return u
}

type categoryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	NameLower string    `bson:"nameLower"`
	Color     string    `bson:"color"`
	Icon      string    `bson:"icon,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func newCategoryDoc(c *models.Category) categoryDoc {
	return categoryDoc{
		ID:        c.ID,
		Name:      c.Name,
		NameLower: strings.ToLower(c.Name),
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d categoryDoc) model() *models.Category {
	c := &models.Category{Name: d.Name, Color: d.Color, Icon: d.Icon}
	c.ID, c.CreatedAt, c.UpdatedAt = d.ID, d.CreatedAt, d.UpdatedAt
	return c
}

type expenseDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"userId"`
	CategoryID    *string   `bson:"categoryId"`
	Amount        string    `bson:"amount"`
	Description   string    `bson:"description"`
	PaymentMethod string    `bson:"paymentMethod"`
	Date          string    `bson:"date"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func newExpenseDoc(e *models.Expense) expenseDoc {
	return expenseDoc{
		ID:            e.ID,
		UserID:        e.UserID,
		CategoryID:    e.CategoryID,
		Amount:        e.Amount.String(),
		Description:   e.Description,
		PaymentMethod: string(e.PaymentMethod),
		Date:          e.Date.String(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (d expenseDoc) model() (*models.Expense, error) {
	amount, err := types.ParseMoney(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: bad amount %q: %w", d.ID, d.Amount, err)
	}
	date, err := types.ParseDate(d.Date)
	if err != nil {
		return nil, fmt.Errorf("expense %s: %w", d.ID, err)
	}
	e := &models.Expense{
		UserID:        d.UserID,
		CategoryID:    d.CategoryID,
		Amount:        amount,
		Description:   d.Description,
		PaymentMethod: models.PaymentMethod(d.PaymentMethod),
		Date:          date,
	}
	e.ID, e.CreatedAt, e.UpdatedAt = d.ID, d.CreatedAt, d.UpdatedAt
	return e, nil
}

type budgetDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	CategoryID *string   `bson:"categoryId"`
	Amount     string    `bson:"amount"`
	Period     string    `bson:"period"`
	StartDate  string    `bson:"startDate"`
	EndDate    string    `bson:"endDate"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func newBudgetDoc(b *models.Budget) budgetDoc {
	return budgetDoc{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Amount:     b.Amount.String(),
		Period:     string(b.Period),
		StartDate:  b.StartDate.String(),
		EndDate:    b.EndDate.String(),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (d budgetDoc) model() (*models.Budget, error) {
	amount, err := types.ParseMoney(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("budget %s: bad amount %q: %w", d.ID, d.Amount, err)
	}
	start, err := types.ParseDate(d.StartDate)
	if err != nil {
		return nil, fmt.Errorf("budget %s: %w", d.ID, err)
	}
	end, err := types.ParseDate(d.EndDate)
	if err != nil {
		return nil, fmt.Errorf("budget %s: %w", d.ID, err)
	}
	b := &models.Budget{
		UserID:     d.UserID,
		CategoryID: d.CategoryID,
		Amount:     amount,
		Period:     models.BudgetPeriod(d.Period),
		StartDate:  start,
		EndDate:    end,
	}
	b.ID, b.CreatedAt, b.UpdatedAt = d.ID, d.CreatedAt, d.UpdatedAt
	return b, nil
}

type insightDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Priority    string    `bson:"priority"`
	IsRead      string    `bson:"isRead"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func newInsightDoc(i *models.Insight) insightDoc {
	return insightDoc{
		ID:          i.ID,
		UserID:      i.UserID,
		Type:        string(i.Type),
		Title:       i.Title,
		Description: i.Description,
		Priority:    string(i.Priority),
		IsRead:      string(i.IsRead),
		CreatedAt:   i.CreatedAt,
	}
}

func (d insightDoc) model() *models.Insight {
	return &models.Insight{
		ID:          d.ID,
		UserID:      d.UserID,
		Type:        models.InsightType(d.Type),
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.InsightPriority(d.Priority),
		IsRead:      models.ReadFlag(d.IsRead),
		CreatedAt:   d.CreatedAt,
	}
}

type auditLogDoc struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"userId"`
	Action       string    `bson:"action"`
	ResourceType string    `bson:"resourceType"`
	ResourceID   string    `bson:"resourceId"`
	IPAddress    string    `bson:"ipAddress"`
	Changes      string    `bson:"changes,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
}
