package models

// Expense event operations.
const (
	ExpenseCreated = "expense.created"
	ExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is published to the message broker after an expense is created or deleted.
type ExpenseEvent struct {
	EventID   string  `json:"event_id"`   // Unique identifier of the event
	Operation string  `json:"operation"`  // ExpenseCreated or ExpenseDeleted
	ExpenseID int64   `json:"expense_id"` // Affected expense
	UserID    int64   `json:"user_id"`    // Owner of the expense, 0 if unknown
	Amount    float64 `json:"amount"`     // Amount of the expense, 0 if unknown
	Currency  string  `json:"currency"`   // Currency of the expense, empty if unknown
	Timestamp int64   `json:"timestamp"`  // Unix time (seconds) of the operation
}
