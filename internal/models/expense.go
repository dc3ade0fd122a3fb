package models

import "spendwise/internal/types"

// PaymentMethod is how an expense was paid.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodUPI,
	PaymentMethodBankTransfer,
}

// Valid reports whether m is one of PaymentMethods.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// Expense is a single spending record owned by a user.
type Expense struct {
	Base
	UserID        string        `gorm:"type:uuid;not null;index:idx_expenses_user_date,priority:1" json:"userId"`
	CategoryID    *string       `gorm:"type:uuid;index" json:"categoryId"`
	Amount        types.Money   `gorm:"type:decimal(12,2);not null" json:"amount" swaggertype:"number"`
	Description   string        `gorm:"size:500;not null" json:"description"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"paymentMethod"`
	Date          types.Date    `gorm:"type:date;not null;index:idx_expenses_user_date,priority:2" json:"date" swaggertype:"string" format:"date"`
}
