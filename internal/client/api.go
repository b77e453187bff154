package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	expensePath = "/api/tables/expense"
	userPath    = "/api/tables/user"
)

// NewExpense is the body of an expense creation.
type NewExpense struct {
	UserID   int64   `json:"userId"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	ItemName string  `json:"itemName"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ExpenseAPI calls the expense resource.
type ExpenseAPI struct {
	c *Client
}

// NewExpenseAPI creates an ExpenseAPI over c.
func NewExpenseAPI(c *Client) *ExpenseAPI {
	return &ExpenseAPI{c: c}
}

// Create records an expense.
func (a *ExpenseAPI) Create(ctx context.Context, e NewExpense) (*Result, error) {
	return a.c.Do(ctx, http.MethodPost, expensePath, e)
}

// GetAll lists the expenses of userID, newest first.
func (a *ExpenseAPI) GetAll(ctx context.Context, userID int64) (*Result, error) {
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	return a.c.Do(ctx, http.MethodGet, expensePath+"?"+q.Encode(), nil)
}

// Delete removes the expense with id.
func (a *ExpenseAPI) Delete(ctx context.Context, id int64) (*Result, error) {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	return a.c.Do(ctx, http.MethodDelete, expensePath+"?"+q.Encode(), nil)
}

type credentials struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

// UserAPI calls the user resource.
type UserAPI struct {
	c *Client
}

// NewUserAPI creates a UserAPI over c.
func NewUserAPI(c *Client) *UserAPI {
	return &UserAPI{c: c}
}

// Register creates an account. email may be nil.
func (a *UserAPI) Register(ctx context.Context, username, password string, email *string) (*Result, error) {
	return a.c.Do(ctx, http.MethodPost, userPath+"?action=register", credentials{Username: username, Password: password, Email: email})
}

// Login checks credentials.
func (a *UserAPI) Login(ctx context.Context, username, password string) (*Result, error) {
	return a.c.Do(ctx, http.MethodPost, userPath+"?action=login", credentials{Username: username, Password: password})
}

// GetAll lists every user.
func (a *UserAPI) GetAll(ctx context.Context) (*Result, error) {
	return a.c.Do(ctx, http.MethodGet, userPath, nil)
}
