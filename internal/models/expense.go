package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
	ExpenseStatusPaid     ExpenseStatus = "paid"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved,
		ExpenseStatusRejected, ExpenseStatusPaid:
		return true
	}
	return false
}

type ExpenseCategory string

const (
	ExpenseCategoryTravel        ExpenseCategory = "travel"
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryAccommodation ExpenseCategory = "accommodation"
	ExpenseCategoryEquipment     ExpenseCategory = "equipment"
	ExpenseCategoryUtilities     ExpenseCategory = "utilities"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryTravel, ExpenseCategoryFood, ExpenseCategoryAccommodation,
		ExpenseCategoryEquipment, ExpenseCategoryUtilities, ExpenseCategoryOther:
		return true
	}
	return false
}

type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Category    ExpenseCategory `json:"category" db:"category"`
	Status      ExpenseStatus   `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
