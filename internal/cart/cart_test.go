package cart

import (
	"errors"
	"testing"

	"gourmet/internal/menu"
	"gourmet/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, id string) models.MenuItem {
	t.Helper()
	it, ok := menu.Default().ByID(id)
	require.True(t, ok, "menu item %s", id)
	return it
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddIsAdditive(t *testing.T) {
	c := New()

	require.NoError(t, c.Add(item(t, "1"), 1))
	require.NoError(t, c.Add(item(t, "1"), 2))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Quantity("1"))
	assert.True(t, c.Total().Equal(dec("38.97")), "got %s", c.Total())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()

	for _, qty := range []int{0, -1} {
		err := c.Add(item(t, "1"), qty)
		assert.True(t, errors.Is(err, ErrInvalidQuantity), "qty %d", qty)
	}
	assert.True(t, c.IsEmpty())
}

func TestInsertionOrderIsKept(t *testing.T) {
	c := New()
	for _, id := range []string{"3", "1", "7"} {
		require.NoError(t, c.Add(item(t, id), 1))
	}
	require.NoError(t, c.Add(item(t, "3"), 1))

	got := make([]string, 0, c.Len())
	for _, it := range c.Items() {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{"3", "1", "7"}, got)
}

func TestRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(t, "1"), 2))
	require.NoError(t, c.Add(item(t, "5"), 1))

	c.Remove("1")
	c.Remove("missing")

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Quantity("1"))
	assert.True(t, c.Total().Equal(dec("10.99")))
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		qty     int
		wantLen int
		wantQty int
	}{
		{"overwrite", "1", 5, 1, 5},
		{"zero removes", "1", 0, 0, 0},
		{"negative removes", "1", -3, 0, 0},
		{"unknown id is ignored", "2", 4, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.Add(item(t, "1"), 2))

			c.UpdateQuantity(tt.id, tt.qty)

			assert.Equal(t, tt.wantLen, c.Len())
			assert.Equal(t, tt.wantQty, c.Quantity(tt.id))
		})
	}
}

func TestTotalTracksMutations(t *testing.T) {
	c := New()
	assert.True(t, c.Total().IsZero())

	require.NoError(t, c.Add(item(t, "1"), 2))
	require.NoError(t, c.Add(item(t, "3"), 1))
	assert.True(t, c.Total().Equal(dec("58.97")), "got %s", c.Total())

	c.UpdateQuantity("1", 1)
	assert.True(t, c.Total().Equal(dec("45.98")), "got %s", c.Total())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestLinesAndSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(item(t, "7"), 3))

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.True(t, snap.Lines[0].LineTotal.Equal(dec("38.97")))
	assert.True(t, snap.Total.Equal(dec("38.97")))

	// Later mutations do not leak into an earlier snapshot.
	c.Clear()
	assert.Len(t, snap.Lines, 1)
}
