package leave

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-hr/peopleops-backend-go/internal/repository/memory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedger_ClosingInvariant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(memory.NewLeaveBalanceRepository(memory.NewStore()))

	b, err := ledger.Seed(ctx, "emp-1", "type-1", 2025, dec("40"))
	require.NoError(t, err)
	assert.True(t, b.Closing.Equal(dec("40")), "closing %s", b.Closing)

	b, err = ledger.Accrue(ctx, "emp-1", "type-1", 2025, dec("16"))
	require.NoError(t, err)
	assert.True(t, b.Closing.Equal(dec("56")), "closing %s", b.Closing)

	b, err = ledger.Adjust(ctx, "emp-1", "type-1", 2025, dec("-8"))
	require.NoError(t, err)
	assert.True(t, b.Closing.Equal(dec("48")), "closing %s", b.Closing)

	b, err = ledger.Use(ctx, "emp-1", "type-1", 2025, dec("24"))
	require.NoError(t, err)
	assert.True(t, b.Opening.Equal(dec("40")))
	assert.True(t, b.Accrued.Equal(dec("16")))
	assert.True(t, b.Adjusted.Equal(dec("-8")))
	assert.True(t, b.Used.Equal(dec("24")))
	assert.True(t, b.Closing.Equal(dec("24")), "closing %s", b.Closing)
}

func TestLedger_SeedIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(memory.NewLeaveBalanceRepository(memory.NewStore()))

	_, err := ledger.Seed(ctx, "emp-1", "type-1", 2025, dec("40"))
	require.NoError(t, err)

	b, err := ledger.Seed(ctx, "emp-1", "type-1", 2025, dec("99"))
	require.NoError(t, err)
	assert.True(t, b.Opening.Equal(dec("40")), "opening %s", b.Opening)
	assert.True(t, b.Closing.Equal(dec("40")))
}

func TestLedger_GetOrCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(memory.NewLeaveBalanceRepository(memory.NewStore()))

	b, err := ledger.GetOrCreate(ctx, "emp-1", "type-1", 2025)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.True(t, b.Closing.IsZero())

	// The second call returns the same row.
	again, err := ledger.GetOrCreate(ctx, "emp-1", "type-1", 2025)
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)

	// A different year is a separate row.
	other, err := ledger.GetOrCreate(ctx, "emp-1", "type-1", 2026)
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, other.ID)
}

func TestLedger_NegativeClosingAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewLedger(memory.NewLeaveBalanceRepository(memory.NewStore()))

	// The arithmetic itself never blocks; callers enforce sufficiency.
	b, err := ledger.Use(ctx, "emp-1", "type-1", 2025, dec("8"))
	require.NoError(t, err)
	assert.True(t, b.Closing.Equal(dec("-8")), "closing %s", b.Closing)
}
