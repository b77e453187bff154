package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/expense-tracker/internal/models"
)

// ExpenseRepository reads and writes expenses through the RecordStore.
type ExpenseRepository struct {
	store *RecordStore
}

func NewExpenseRepository(store *RecordStore) *ExpenseRepository {
	return &ExpenseRepository{store: store}
}

// ListByUser returns the user's expenses, latest date and time first.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	ex := r.store.executor(ctx)
	query := ex.Rebind(`
		SELECT id, user_id, date, time, item_name, amount, currency, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, time DESC, id DESC
	`)
	args := []any{userID}

	expenses := []models.Expense{}
	err := sqlx.SelectContext(ctx, ex, &expenses, query, args...)
	logQuery(query, args, len(expenses), err)
	if err != nil {
		return nil, fmt.Errorf("list expenses of user %d: %w", userID, err)
	}
	return expenses, nil
}

// GetByID returns the expense with the given id, or nil when there is none.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*models.Expense, error) {
	expenses, err := Query[models.Expense](ctx, r.store, TableExpenses, Fields{{Name: "id", Value: id}}, 1)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}
	return &expenses[0], nil
}

// Save inserts e and returns the stored row.
func (r *ExpenseRepository) Save(ctx context.Context, e models.Expense) (models.Expense, error) {
	return Insert[models.Expense](ctx, r.store, TableExpenses, Fields{
		{Name: "user_id", Value: e.UserID},
		{Name: "date", Value: e.Date},
		{Name: "time", Value: e.Time},
		{Name: "item_name", Value: e.ItemName},
		{Name: "amount", Value: e.Amount},
		{Name: "currency", Value: e.Currency},
	})
}

// Delete removes the expense. It does not check that a row existed.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	_, err := Delete(ctx, r.store, TableExpenses, id)
	return err
}
