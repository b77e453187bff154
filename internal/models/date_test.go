package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    string
		wantErr bool
	}{
		{name: "time", src: time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC), want: "2024-01-02"},
		{name: "text", src: "2024-03-04", want: "2024-03-04"},
		{name: "timestamp text", src: "2024-03-04T00:00:00Z", want: "2024-03-04"},
		{name: "bytes", src: []byte("2024-05-06"), want: "2024-05-06"},
		{name: "garbage", src: "yesterday", wantErr: true},
		{name: "unsupported", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestClockTime_ParseAndString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "09:00:00", want: "09:00"},
		{in: "09:00:30", want: "09:00:30"},
		{in: "09:00:00.000000", want: "09:00"},
		{in: "9am", wantErr: true},
		{in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseClockTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestExpense_JSON(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	c, err := ParseClockTime("09:00")
	require.NoError(t, err)

	e := Expense{ID: 1, UserID: 7, Date: d, Time: c, ItemName: "coffee", Amount: 4.5, Currency: "USD"}
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "2024-01-01", got["date"])
	assert.Equal(t, "09:00", got["time"])
	assert.Equal(t, "coffee", got["item_name"])
	assert.Equal(t, 4.5, got["amount"])
}

func TestUser_PublicHidesHash(t *testing.T) {
	u := User{ID: 3, Username: "alice", PasswordHash: "secret-hash"}
	b, err := json.Marshal(u.Public())
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret-hash")
	assert.Contains(t, string(b), `"email":null`)
}
