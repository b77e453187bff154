package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sbilibin2017/expense-tracker/internal/client"
	"github.com/sbilibin2017/expense-tracker/internal/formstate"
)

// expenseForm holds the raw field values of a new expense. Blank fields
// fall back to the defaults.
type expenseForm struct {
	state    formstate.Controller
	fields   map[string]string
	defaults map[string]string
}

func newExpenseForm(state formstate.Controller, now time.Time) *expenseForm {
	f := &expenseForm{
		state: state,
		fields: map[string]string{
			"userId": "", "date": "", "time": "", "itemName": "", "amount": "", "currency": "",
		},
		defaults: map[string]string{
			"date":     now.Format("2006-01-02"),
			"time":     now.Format("15:04"),
			"currency": "USD",
		},
	}
	f.reset()
	return f
}

// fill copies the non-blank values into the form.
func (f *expenseForm) fill(values map[string]string) {
	for k, v := range values {
		if _, ok := f.fields[k]; ok && strings.TrimSpace(v) != "" {
			f.fields[k] = strings.TrimSpace(v)
		}
	}
}

func (f *expenseForm) reset() {
	f.state.ResetFields(f.fields, f.defaults)
}

// expense converts the form into a request body. Zero and blank values are
// sent as they are so the server reports them.
func (f *expenseForm) expense() (client.NewExpense, error) {
	e := client.NewExpense{
		Date:     f.fields["date"],
		Time:     f.fields["time"],
		ItemName: f.fields["itemName"],
		Currency: f.fields["currency"],
	}

	var err error
	if e.UserID, err = strconv.ParseInt(f.fields["userId"], 10, 64); err != nil {
		return e, fmt.Errorf("invalid user-id %q", f.fields["userId"])
	}
	if f.fields["amount"] != "" {
		if e.Amount, err = strconv.ParseFloat(f.fields["amount"], 64); err != nil {
			return e, fmt.Errorf("invalid amount %q", f.fields["amount"])
		}
	}
	return e, nil
}
