package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FellipeMarraa/cashz-api/models"
)

func testOwner() *models.User {
	return &models.User{
		ID:    "6f1c8a60-1234-4cde-9abc-000000000001",
		Name:  "Alice",
		Email: "alice@example.com",
	}
}

func testRequest(recurrence string) models.CreateTransactionRequest {
	return models.CreateTransactionRequest{
		Description: "Gym membership",
		Amount:      decimal.RequireFromString("100.00"),
		Month:       6,
		Year:        2026,
		CategoryID:  "cat-1",
		Type:        models.TypeExpense,
		Recurrence:  recurrence,
		Status:      models.StatusPending,
	}
}

func TestBuildSeriesSingle(t *testing.T) {
	req := testRequest(models.RecurrenceSingle)

	series, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
	require.NoError(t, err)
	require.Len(t, series, 1)

	tx := series[0]
	assert.Empty(t, tx.Reference, "a single transaction carries no reference")
	assert.Equal(t, 6, tx.Month)
	assert.Equal(t, 2026, tx.Year)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "Health", tx.CategoryName)
	assert.Equal(t, "Alice", tx.UserName)
	assert.Equal(t, "alice@example.com", tx.UserEmail)
	assert.Zero(t, tx.NumInstallments)
	assert.Zero(t, tx.CurrentInstallment)
}

func TestBuildSeriesInstallment(t *testing.T) {
	req := testRequest(models.RecurrenceInstallment)
	req.NumInstallments = 3

	series, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
	require.NoError(t, err)
	require.Len(t, series, 3)

	reference := series[0].Reference
	require.Equal(t, series[0].ID, reference, "reference is the first row's id")

	wantMonths := []int{6, 7, 8}
	for i, tx := range series {
		assert.Equal(t, reference, tx.Reference)
		assert.Equal(t, i+1, tx.CurrentInstallment)
		assert.Equal(t, 3, tx.NumInstallments)
		assert.Equal(t, wantMonths[i], tx.Month)
		assert.Equal(t, 2026, tx.Year)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("33.33")),
			"each installment is amount/n rounded to 2dp, got %s", tx.Amount)
	}

	// The accepted rounding drift: the series total is round(A/N)*N,
	// which may differ from A by up to a cent per extra installment.
	total := decimal.Zero
	for _, tx := range series {
		total = total.Add(tx.Amount)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("99.99")))
}

func TestBuildSeriesInstallmentWrapsYear(t *testing.T) {
	req := testRequest(models.RecurrenceInstallment)
	req.Month = 11
	req.NumInstallments = 4

	series, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
	require.NoError(t, err)
	require.Len(t, series, 4)

	type period struct{ month, year int }
	want := []period{{11, 2026}, {12, 2026}, {1, 2027}, {2, 2027}}
	for i, tx := range series {
		assert.Equal(t, want[i].month, tx.Month)
		assert.Equal(t, want[i].year, tx.Year)
	}
}

func TestBuildSeriesInstallmentCountTooLow(t *testing.T) {
	req := testRequest(models.RecurrenceInstallment)

	for _, n := range []int{0, 1} {
		req.NumInstallments = n
		_, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
		assert.ErrorIs(t, err, ErrInvalidInstallmentCount)
	}
}

func TestBuildSeriesFixedRunsThroughDecember(t *testing.T) {
	req := testRequest(models.RecurrenceFixed)
	req.Month = 10
	req.Amount = decimal.RequireFromString("50.00")

	series, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
	require.NoError(t, err)
	require.Len(t, series, 3, "fixed recurrence stops at year end, no January row")

	wantMonths := []int{10, 11, 12}
	for i, tx := range series {
		assert.Equal(t, wantMonths[i], tx.Month)
		assert.Equal(t, 2026, tx.Year)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString("50.00")), "fixed rows carry the full amount")
		assert.Equal(t, series[0].ID, tx.Reference)
	}
}

func TestBuildSeriesFixedStartingDecember(t *testing.T) {
	req := testRequest(models.RecurrenceFixed)
	req.Month = 12

	series, err := buildSeries(testOwner(), "cat-1", "Health", req, time.Now())
	require.NoError(t, err)
	assert.Len(t, series, 1)
}

func TestSplitInstallmentAmount(t *testing.T) {
	cases := []struct {
		total string
		n     int
		want  string
	}{
		{"100.00", 3, "33.33"},
		{"100.00", 4, "25"},
		{"0.05", 2, "0.03"},
		{"899.90", 12, "74.99"},
	}

	for _, tc := range cases {
		got := splitInstallmentAmount(decimal.RequireFromString(tc.total), tc.n)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"%s / %d: want %s, got %s", tc.total, tc.n, tc.want, got)
	}
}

func TestAddMonths(t *testing.T) {
	m, y := addMonths(6, 2026, 0)
	assert.Equal(t, 6, m)
	assert.Equal(t, 2026, y)

	m, y = addMonths(11, 2026, 3)
	assert.Equal(t, 2, m)
	assert.Equal(t, 2027, y)

	m, y = addMonths(12, 2026, 13)
	assert.Equal(t, 1, m)
	assert.Equal(t, 2028, y)
}

func TestSeriesGroupKey(t *testing.T) {
	withRef := &models.Transaction{ID: "row-2", Reference: "row-1"}
	assert.Equal(t, "row-1", seriesGroupKey(withRef))

	// A row missing its reference is treated as a singleton group.
	orphan := &models.Transaction{ID: "row-9"}
	assert.Equal(t, "row-9", seriesGroupKey(orphan))
}

func TestForwardCancelIDs(t *testing.T) {
	june := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	siblings := []models.Transaction{
		{ID: "jun", Date: june},
		{ID: "jul", Date: july},
		{ID: "aug", Date: august},
	}

	// Cancelling from August keeps the elapsed June and July rows.
	assert.Equal(t, []string{"aug"}, forwardCancelIDs(siblings, august))

	// Cancelling from the first row purges the whole series.
	assert.Equal(t, []string{"jun", "jul", "aug"}, forwardCancelIDs(siblings, june))

	assert.Equal(t, []string{"jul", "aug"}, forwardCancelIDs(siblings, july))
}

func TestBudgetAlert(t *testing.T) {
	limit := decimal.RequireFromString("100.00")

	kind, _, _ := budgetAlert("Food", limit, decimal.RequireFromString("100.00"))
	assert.Equal(t, models.NotifyBudgetExhausted, kind, "reaching the limit exhausts the budget")

	kind, _, _ = budgetAlert("Food", limit, decimal.RequireFromString("120.00"))
	assert.Equal(t, models.NotifyBudgetExhausted, kind)

	kind, _, _ = budgetAlert("Food", limit, decimal.RequireFromString("80.00"))
	assert.Equal(t, models.NotifyBudgetWarning, kind, "80% of the limit warns")

	kind, _, _ = budgetAlert("Food", limit, decimal.RequireFromString("79.99"))
	assert.Empty(t, kind)
}
