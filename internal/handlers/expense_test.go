package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/expense-tracker/internal/models"
	"github.com/sbilibin2017/expense-tracker/internal/repositories"
)

func mustExpense(t *testing.T, userID int64, date, clock, item string, amount float64, currency string) models.Expense {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	c, err := models.ParseClockTime(clock)
	require.NoError(t, err)
	return models.Expense{UserID: userID, Date: d, Time: c, ItemName: item, Amount: amount, Currency: currency}
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestExpenseHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coffee := mustExpense(t, 1, "2024-01-01", "09:00", "coffee", 4.5, "USD")
	coffee.ID = 1

	tests := []struct {
		name         string
		target       string
		mockSetup    func(m *MockExpenseManager)
		expectedCode int
		expectedErr  string
		expectedLen  int
	}{
		{
			name:         "missing userId",
			target:       "/api/tables/expense",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "missing userId",
		},
		{
			name:         "invalid userId",
			target:       "/api/tables/expense?userId=abc",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid userId",
		},
		{
			name:   "list",
			target: "/api/tables/expense?userId=1",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().List(gomock.Any(), int64(1)).Return([]models.Expense{coffee}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  1,
		},
		{
			name:   "empty list",
			target: "/api/tables/expense?userId=2",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().List(gomock.Any(), int64(2)).Return(nil, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "service error is not leaked",
			target: "/api/tables/expense?userId=1",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().List(gomock.Any(), int64(1)).Return(nil, errors.New("pq: connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockExpenseManager(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr := httptest.NewRecorder()
			NewExpenseHandler(mockSvc)(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			resp := decodeEnvelope(t, rr)
			if tt.expectedErr != "" {
				assert.Equal(t, false, resp["success"])
				assert.Equal(t, tt.expectedErr, resp["error"])
				assert.NotContains(t, rr.Body.String(), "connection refused")
				return
			}

			assert.Equal(t, true, resp["success"])
			data, ok := resp["data"].([]any)
			require.True(t, ok, "data must be a JSON array")
			assert.Len(t, data, tt.expectedLen)
		})
	}
}

func TestExpenseHandler_Post(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	coffee := mustExpense(t, 1, "2024-01-01", "09:00", "coffee", 4.5, "USD")
	saved := coffee
	saved.ID = 10

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockExpenseManager)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "created",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Create(gomock.Any(), coffee).Return(saved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "numeric strings are accepted",
			body: `{"userId":"1","date":"2024-01-01","time":"09:00","itemName":"coffee","amount":"4.5","currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Create(gomock.Any(), coffee).Return(saved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing fields listed in order",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "missing required fields: itemName, amount, currency",
		},
		{
			name:         "zero amount counts as missing",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":0,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "missing required fields: amount",
		},
		{
			name:         "null and blank count as missing",
			body:         `{"userId":null,"date":"2024-01-01","time":"09:00","itemName":"  ","amount":1,"currency":false}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "missing required fields: userId, itemName, currency",
		},
		{
			name:         "malformed json",
			body:         `{"userId":`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
		{
			name:         "bad date",
			body:         `{"userId":1,"date":"01/01/2024","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: date",
		},
		{
			name:         "bad time",
			body:         `{"userId":1,"date":"2024-01-01","time":"morning","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: time",
		},
		{
			name:         "non numeric amount",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":"lots","currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: amount",
		},
		{
			name:         "fractional userId",
			body:         `{"userId":1.5,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: userId",
		},
		{
			name: "unknown user",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Create(gomock.Any(), coffee).Return(models.Expense{}, fmt.Errorf("insert into expenses: %w", repositories.ErrInvalidReference))
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "unknown userId",
		},
		{
			name: "amount is rounded to cents",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.555,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				rounded := coffee
				rounded.Amount = 4.56
				m.EXPECT().Create(gomock.Any(), rounded).Return(saved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "amount beyond column precision",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":1e10,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: amount",
		},
		{
			name:         "amount that is not finite",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":"NaN","currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: amount",
		},
		{
			name:         "currency longer than its column",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"DOLLARSSS"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: currency",
		},
		{
			name:         "item name longer than its column",
			body:         `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"` + strings.Repeat("é", models.MaxItemNameLen+1) + `","amount":4.5,"currency":"USD"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid field format: itemName",
		},
		{
			name: "item name at the column limit",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"` + strings.Repeat("é", models.MaxItemNameLen) + `","amount":4.5,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				long := coffee
				long.ItemName = strings.Repeat("é", models.MaxItemNameLen)
				m.EXPECT().Create(gomock.Any(), long).Return(saved, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "value rejected by the database",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Create(gomock.Any(), coffee).Return(models.Expense{}, fmt.Errorf("insert into expenses: %w", repositories.ErrInvalidValue))
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "field value out of range",
		},
		{
			name: "service error",
			body: `{"userId":1,"date":"2024-01-01","time":"09:00","itemName":"coffee","amount":4.5,"currency":"USD"}`,
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Create(gomock.Any(), coffee).Return(models.Expense{}, errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockExpenseManager(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/tables/expense", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			NewExpenseHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			resp := decodeEnvelope(t, rr)
			if tt.expectedErr != "" {
				assert.Equal(t, false, resp["success"])
				assert.Equal(t, tt.expectedErr, resp["error"])
				return
			}

			assert.Equal(t, true, resp["success"])
			assert.Equal(t, "Expense created", resp["message"])
			data := resp["data"].(map[string]any)
			assert.Equal(t, float64(10), data["id"])
			assert.Equal(t, "coffee", data["item_name"])
			assert.Equal(t, "2024-01-01", data["date"])
			assert.Equal(t, "09:00", data["time"])
		})
	}
}

func TestExpenseHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		target       string
		mockSetup    func(m *MockExpenseManager)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:         "missing id",
			target:       "/api/tables/expense",
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]any{"success": false, "error": "missing id"},
		},
		{
			name:         "invalid id",
			target:       "/api/tables/expense?id=x",
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]any{"success": false, "error": "invalid id"},
		},
		{
			name:   "deleted",
			target: "/api/tables/expense?id=42",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: map[string]any{"success": true, "message": "Expense deleted"},
		},
		{
			name:   "nonexistent id still succeeds",
			target: "/api/tables/expense?id=999999",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Delete(gomock.Any(), int64(999999)).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: map[string]any{"success": true, "message": "Expense deleted"},
		},
		{
			name:   "service error",
			target: "/api/tables/expense?id=42",
			mockSetup: func(m *MockExpenseManager) {
				m.EXPECT().Delete(gomock.Any(), int64(42)).Return(errors.New("db error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]any{"success": false, "error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockExpenseManager(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr := httptest.NewRecorder()
			NewExpenseHandler(mockSvc)(rr, httptest.NewRequest(http.MethodDelete, tt.target, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, decodeEnvelope(t, rr))
		})
	}
}

func TestExpenseHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewExpenseHandler(NewMockExpenseManager(ctrl))(rr, httptest.NewRequest(method, "/api/tables/expense", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, map[string]any{"success": false, "error": "method not allowed"}, decodeEnvelope(t, rr))
		})
	}
}
