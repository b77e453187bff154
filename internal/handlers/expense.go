package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/expense-tracker/internal/logger"
	"github.com/sbilibin2017/expense-tracker/internal/models"
	"github.com/sbilibin2017/expense-tracker/internal/repositories"
)

//go:generate mockgen -source=expense.go -destination=mock_expense.go -package=handlers

// ExpenseManager defines the operations the expense resource needs.
type ExpenseManager interface {
	List(ctx context.Context, userID int64) ([]models.Expense, error)
	Create(ctx context.Context, e models.Expense) (models.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// CreateExpenseRequest represents the JSON body for a new expense
// swagger:model CreateExpenseRequest
type CreateExpenseRequest struct {
	// Owner of the expense
	// required: true
	// default: 1
	UserID int64 `json:"userId"`

	// Date in YYYY-MM-DD
	// required: true
	// default: 2024-01-01
	Date string `json:"date"`

	// Time in HH:MM or HH:MM:SS
	// required: true
	// default: 09:00
	Time string `json:"time"`

	// What was bought
	// required: true
	// default: coffee
	ItemName string `json:"itemName"`

	// Amount spent
	// required: true
	// default: 4.5
	Amount float64 `json:"amount"`

	// Currency code
	// required: true
	// default: USD
	Currency string `json:"currency"`
}

var expenseRequiredFields = []string{"userId", "date", "time", "itemName", "amount", "currency"}

// NewExpenseHandler returns an HTTP handler for the expense resource.
// @Summary Expense resource
// @Description GET lists a user's expenses newest first, POST records an expense, DELETE removes one by id.
// @Tags expenses
// @Accept json
// @Produce json
// @Param userId query int false "Owner of the expenses (GET)"
// @Param id query int false "Expense id (DELETE)"
// @Param expense body handlers.CreateExpenseRequest false "New expense (POST)"
// @Success 200 {object} models.Envelope "Operation succeeded"
// @Failure 400 {object} models.Envelope "Missing or malformed input"
// @Failure 405 {object} models.Envelope "Method not allowed"
// @Failure 500 {object} models.Envelope "Internal server error"
// @Router /tables/expense [get]
// @Router /tables/expense [post]
// @Router /tables/expense [delete]
func NewExpenseHandler(svc ExpenseManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listExpenses(w, r, svc)
		case http.MethodPost:
			createExpense(w, r, svc)
		case http.MethodDelete:
			deleteExpense(w, r, svc)
		default:
			MethodNotAllowed(w, r)
		}
	}
}

func listExpenses(w http.ResponseWriter, r *http.Request, svc ExpenseManager) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	expenses, err := svc.List(r.Context(), userID)
	if err != nil {
		logger.Log.Errorw("failed to list expenses", "userID", userID, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}

	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Data: expenses})
}

func createExpense(w http.ResponseWriter, r *http.Request, svc ExpenseManager) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if missing := missingFields(body, expenseRequiredFields); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	expense, err := parseExpense(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := svc.Create(r.Context(), expense)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidReference) {
			writeError(w, http.StatusBadRequest, "unknown userId")
			return
		}
		if errors.Is(err, repositories.ErrInvalidValue) {
			writeError(w, http.StatusBadRequest, msgInvalidValue)
			return
		}
		logger.Log.Errorw("failed to create expense", "userID", expense.UserID, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Message: "Expense created", Data: created})
}

func deleteExpense(w http.ResponseWriter, r *http.Request, svc ExpenseManager) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := svc.Delete(r.Context(), id); err != nil {
		logger.Log.Errorw("failed to delete expense", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, models.Envelope{Success: true, Message: "Expense deleted"})
}

// decodeBody reads a JSON object keeping numbers as json.Number.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// missingFields treats numeric zero and false as missing in addition to
// absent, null and blank values.
func missingFields(body map[string]any, required []string) []string {
	present := make(map[string]any, len(body))
	for k, v := range body {
		if isZero(v) {
			continue
		}
		present[k] = v
	}
	return repositories.ValidateRequired(present, required).MissingFields
}

func isZero(v any) bool {
	switch x := v.(type) {
	case bool:
		return !x
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

func parseExpense(body map[string]any) (models.Expense, error) {
	var e models.Expense
	var err error

	if e.UserID, err = toInt64(body["userId"]); err != nil {
		return e, invalidField("userId")
	}
	if e.Amount, err = toFloat64(body["amount"]); err != nil {
		return e, invalidField("amount")
	}
	if e.Amount, err = roundAmount(e.Amount); err != nil {
		return e, invalidField("amount")
	}

	date, ok := body["date"].(string)
	if !ok {
		return e, invalidField("date")
	}
	if e.Date, err = models.ParseDate(strings.TrimSpace(date)); err != nil {
		return e, invalidField("date")
	}

	clock, ok := body["time"].(string)
	if !ok {
		return e, invalidField("time")
	}
	if e.Time, err = models.ParseClockTime(strings.TrimSpace(clock)); err != nil {
		return e, invalidField("time")
	}

	if e.ItemName, ok = body["itemName"].(string); !ok || tooLong(e.ItemName, models.MaxItemNameLen) {
		return e, invalidField("itemName")
	}
	if e.Currency, ok = body["currency"].(string); !ok || tooLong(e.Currency, models.MaxCurrencyLen) {
		return e, invalidField("currency")
	}

	return e, nil
}

func invalidField(name string) error {
	return fmt.Errorf("invalid field format: %s", name)
}

// roundAmount keeps cents, rounding half away from zero like NUMERIC(12,2).
func roundAmount(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount %v is not finite", f)
	}
	d := decimal.NewFromFloat(f).Round(2)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromFloat(models.MaxAmount)) {
		return 0, fmt.Errorf("amount %s out of range", d)
	}
	return d.InexactFloat64(), nil
}

// tooLong counts characters, as VARCHAR(n) does.
func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}
