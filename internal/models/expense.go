package models

import "time"

// Column limits of the expenses table.
const (
	MaxItemNameLen = 255
	MaxCurrencyLen = 8
	// MaxAmount bounds NUMERIC(12,2); amounts are kept to two decimals.
	MaxAmount = 1e10
)

// Expense represents a row of the expenses table.
// swagger:model Expense
type Expense struct {
	ID        int64     `json:"id" db:"id"`                 // Primary key
	UserID    int64     `json:"user_id" db:"user_id"`       // Owner
	Date      Date      `json:"date" db:"date"`             // Day the money was spent
	Time      ClockTime `json:"time" db:"time"`             // Time of day the money was spent
	ItemName  string    `json:"item_name" db:"item_name"`   // What was bought
	Amount    float64   `json:"amount" db:"amount"`         // Amount in Currency
	Currency  string    `json:"currency" db:"currency"`     // Currency code, e.g. USD
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}
