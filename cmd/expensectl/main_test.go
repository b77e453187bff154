package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/expense-tracker/internal/formstate"
)

type seenRequest struct {
	method string
	uri    string
	body   map[string]any
}

// fakeAPI answers every request with status and body and records the last request.
func fakeAPI(t *testing.T, status int, body string) (*httptest.Server, *seenRequest) {
	t.Helper()
	seen := &seenRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		*seen = seenRequest{method: r.Method, uri: r.URL.RequestURI()}
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &seen.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	err := run(args, strings.NewReader(stdin), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_RegisterPromptsForPassword(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusOK,
		`{"success":true,"message":"Registration successful","data":{"id":1,"username":"alice","email":"a@example.com","created_at":"2024-01-01T00:00:00Z","last_login":null}}`)

	out, _, err := runCLI(t, "secret\n", "-addr", srv.URL, "register", "-user", "alice", "-email", "a@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, "/api/tables/user?action=register", seen.uri)
	assert.Equal(t, map[string]any{"username": "alice", "password": "secret", "email": "a@example.com"}, seen.body)

	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "[green] ✅ Registration successful")
	assert.Contains(t, out, "id=1 username=alice email=a@example.com last_login=-")
}

func TestRun_LoginFailure(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusUnauthorized, `{"success":false,"error":"invalid username or password"}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "login", "-user", "alice", "-password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid username or password", err.Error())
	assert.Contains(t, out, "[red] ❌ invalid username or password")
}

func TestRun_EmptyPassword(t *testing.T) {
	_, _, err := runCLI(t, "   \n", "-addr", "http://127.0.0.1:1", "login", "-user", "alice")
	assert.EqualError(t, err, "password cannot be empty")
}

func TestRun_AddExpense(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusOK,
		`{"success":true,"message":"Expense created","data":{"id":9,"user_id":7,"date":"2024-01-01","time":"09:00","item_name":"coffee","amount":4.5,"currency":"USD","created_at":"2024-01-01T09:00:00Z"}}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "add",
		"-user-id", "7", "-item", "coffee", "-amount", "4.5", "-date", "2024-01-01", "-time", "09:00")
	require.NoError(t, err)

	assert.Equal(t, "/api/tables/expense", seen.uri)
	assert.Equal(t, map[string]any{
		"userId": float64(7), "date": "2024-01-01", "time": "09:00",
		"itemName": "coffee", "amount": 4.5, "currency": "USD",
	}, seen.body)
	assert.Contains(t, out, "[green] ✅ Expense created")
	assert.Contains(t, out, "id=9 2024-01-01 09:00 coffee 4.50 USD")
}

func TestRun_AddExpenseMissingFields(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusBadRequest, `{"success":false,"error":"missing required fields: userId, itemName, amount"}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "add")
	require.Error(t, err)
	assert.Equal(t, float64(0), seen.body["userId"])
	assert.Equal(t, "USD", seen.body["currency"])
	assert.Contains(t, out, "[red] ❌ missing required fields: userId, itemName, amount")
}

func TestRun_ListExpenses(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusOK,
		`{"success":true,"data":[{"id":2,"user_id":7,"date":"2024-01-02","time":"08:15","item_name":"bagel","amount":3,"currency":"USD","created_at":"2024-01-02T08:15:00Z"}]}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "list", "-user-id", "7")
	require.NoError(t, err)

	assert.Equal(t, "/api/tables/expense?userId=7", seen.uri)
	assert.Contains(t, out, "[green] ✅ Operation successful!")
	assert.Contains(t, out, "ITEM")
	assert.Contains(t, out, "bagel")
	assert.Contains(t, out, "3.00")
}

func TestRun_ListUsers(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusOK,
		`{"success":true,"data":[{"id":1,"username":"alice","email":null,"created_at":"2024-01-01T00:00:00Z","last_login":"2024-01-02T00:00:00Z"}]}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "users")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, seen.method)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2024-01-02T00:00:00Z")
}

func TestRun_DeleteExpense(t *testing.T) {
	srv, seen := fakeAPI(t, http.StatusOK, `{"success":true,"message":"Expense deleted"}`)

	out, _, err := runCLI(t, "", "-addr", srv.URL, "delete", "-id", "12")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, seen.method)
	assert.Equal(t, "/api/tables/expense?id=12", seen.uri)
	assert.Contains(t, out, "[green] ✅ Expense deleted")
}

func TestRun_BadResponseFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "-addr", srv.URL, "users")
	require.Error(t, err)
	assert.Contains(t, out, "[red] ❌ bad response format")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no command", args: nil, wantErr: "missing command"},
		{name: "unknown command", args: []string{"fly"}, wantErr: `unknown command "fly"`},
		{name: "register without user", args: []string{"register"}, wantErr: "missing required flags: user"},
		{name: "list without user id", args: []string{"list"}, wantErr: "missing required flags: user-id"},
		{name: "delete without id", args: []string{"delete"}, wantErr: "missing required flags: id"},
		{name: "bad amount", args: []string{"add", "-user-id", "1", "-amount", "lots"}, wantErr: `invalid amount "lots"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", append([]string{"-addr", "http://127.0.0.1:1"}, tt.args...)...)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestExpenseForm(t *testing.T) {
	state := formstate.New()
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	f := newExpenseForm(state, now)

	f.fill(map[string]string{"userId": "7", "itemName": " tea ", "amount": "2.5", "unknown": "x"})
	e, err := f.expense()
	require.NoError(t, err)
	assert.Equal(t, int64(7), e.UserID)
	assert.Equal(t, "tea", e.ItemName)
	assert.Equal(t, 2.5, e.Amount)
	assert.Equal(t, "2024-03-05", e.Date)
	assert.Equal(t, "14:30", e.Time)
	assert.Equal(t, "USD", e.Currency)
	assert.NotContains(t, f.fields, "unknown")

	state.SetStatus("done", formstate.Success)
	f.reset()
	assert.Equal(t, "", f.fields["itemName"])
	assert.Equal(t, "USD", f.fields["currency"])
	assert.Equal(t, formstate.Status{Category: formstate.Info}, state.Status())

	_, err = f.expense()
	assert.EqualError(t, err, `invalid user-id ""`)
}
