package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a holding transaction
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is a single BUY or SELL recorded against a holding
type Transaction struct {
	ID              uuid.UUID
	Type            TransactionType
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	TransactionDate time.Time
}

// Amount returns quantity × price
func (t *Transaction) Amount() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// Validate ensures the transaction adheres to domain rules
func (t *Transaction) Validate() error {
	if t.Type != TransactionTypeBuy && t.Type != TransactionTypeSell {
		return errors.New("transaction type must be BUY or SELL")
	}

	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction quantity must be positive")
	}

	if t.Price.IsNegative() {
		return errors.New("transaction price must not be negative")
	}

	if t.TransactionDate.IsZero() {
		return errors.New("transaction date is required")
	}

	return nil
}
