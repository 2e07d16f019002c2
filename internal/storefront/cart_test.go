package storefront

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id int64, price string) Product {
	return Product{ID: id, Name: "product", Price: decimal.RequireFromString(price)}
}

func TestCartAddMergesSameProduct(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	mug := testProduct(1, "19.99")
	cart.Add(mug)
	cart.Add(mug)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, cart.ItemCount())
}

func TestCartAddKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(testProduct(2, "1"))
	cart.Add(testProduct(1, "1"))
	cart.Add(testProduct(2, "1"))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].Product.ID)
	assert.Equal(t, int64(1), items[1].Product.ID)
}

func TestCartRemove(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(testProduct(1, "1"))
	cart.Add(testProduct(2, "1"))
	cart.Add(testProduct(3, "1"))

	cart.Remove(2)
	cart.Remove(99)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, int64(3), items[1].Product.ID)

	cart.Add(testProduct(3, "1"))
	qty, ok := cart.Quantity(3)
	require.True(t, ok)
	assert.Equal(t, 2, qty, "index must follow the shifted line")
}

func TestCartSetQuantityBelowOneRemoves(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -5} {
		cart := NewCart()
		cart.Add(testProduct(1, "1"))
		cart.Add(testProduct(2, "1"))

		removed := NewCart()
		removed.Add(testProduct(1, "1"))
		removed.Add(testProduct(2, "1"))

		cart.SetQuantity(1, qty)
		removed.Remove(1)

		if len(cart.Items()) != len(removed.Items()) || cart.Items()[0].Product.ID != removed.Items()[0].Product.ID {
			t.Fatalf("SetQuantity(1, %d) differs from Remove(1): %+v vs %+v", qty, cart.Items(), removed.Items())
		}
	}
}

func TestCartSetQuantityReplaces(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(testProduct(1, "2.50"))
	cart.SetQuantity(1, 4)
	cart.SetQuantity(42, 3)

	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 4, cart.ItemCount())
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("10")))
}

func TestCartSubtotalExact(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	p := testProduct(1, "19.99")
	cart.Add(p)
	cart.SetQuantity(1, 3)
	cart.Add(testProduct(2, "0.01"))

	if got := cart.Subtotal(); !got.Equal(decimal.RequireFromString("59.98")) {
		t.Fatalf("expected subtotal 59.98, got %s", got)
	}
}

func TestCartClearAndRevision(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	start := cart.Revision()
	cart.Clear()
	assert.Equal(t, start, cart.Revision(), "clearing an empty cart is not a mutation")

	cart.Add(testProduct(1, "1"))
	afterAdd := cart.Revision()
	assert.Greater(t, afterAdd, start)

	cart.SetQuantity(1, 1)
	assert.Equal(t, afterAdd, cart.Revision(), "unchanged quantity is not a mutation")
	cart.Remove(7)
	assert.Equal(t, afterAdd, cart.Revision())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Greater(t, cart.Revision(), afterAdd)
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCartItemsIsCopy(t *testing.T) {
	t.Parallel()

	cart := NewCart()
	cart.Add(testProduct(1, "1"))
	items := cart.Items()
	items[0].Quantity = 100

	qty, _ := cart.Quantity(1)
	assert.Equal(t, 1, qty)
}

func TestCartInvariantsHoldForRandomOperations(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	cart := NewCart()
	for i := 0; i < 5000; i++ {
		id := int64(rng.Intn(6))
		switch rng.Intn(3) {
		case 0:
			cart.Add(testProduct(id, "1.25"))
		case 1:
			cart.Remove(id)
		case 2:
			cart.SetQuantity(id, rng.Intn(9)-4)
		}

		seen := map[int64]bool{}
		for _, item := range cart.Items() {
			if seen[item.Product.ID] {
				t.Fatalf("step %d: duplicate line for product %d", i, item.Product.ID)
			}
			seen[item.Product.ID] = true
			if item.Quantity < 1 {
				t.Fatalf("step %d: non-positive quantity %d for product %d", i, item.Quantity, item.Product.ID)
			}
			if qty, ok := cart.Quantity(item.Product.ID); !ok || qty != item.Quantity {
				t.Fatalf("step %d: index out of sync for product %d", i, item.Product.ID)
			}
		}
	}
}
