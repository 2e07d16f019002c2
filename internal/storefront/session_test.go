package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/metrics"
)

type stubProducts struct {
	products []Product
	err      error
	calls    int
}

func (s *stubProducts) ListProducts(context.Context) ([]Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type stubOrders struct {
	orderID string
	err     error
	drafts  []OrderDraft
	// hook runs while the submission is in flight.
	hook func()
}

func (s *stubOrders) SubmitOrder(_ context.Context, draft OrderDraft) (string, error) {
	s.drafts = append(s.drafts, draft)
	if s.hook != nil {
		s.hook()
	}
	return s.orderID, s.err
}

func newTestSession(t *testing.T, orders *stubOrders) *Session {
	t.Helper()
	source := &stubProducts{products: []Product{testProduct(1, "19.99"), testProduct(2, "5.00")}}
	session, err := NewSession(source, orders, WithMetrics(metrics.NewStorefrontMetrics(prometheus.NewRegistry())))
	require.NoError(t, err)
	require.NoError(t, session.LoadCatalog(context.Background()))
	return session
}

func checkoutReady(t *testing.T, s *Session) *OrderDraft {
	t.Helper()
	require.NoError(t, s.AddToCart(1))
	require.NoError(t, s.AddToCart(1))
	require.NoError(t, s.AddToCart(2))
	require.True(t, s.Navigate(ViewCart))
	require.True(t, s.Navigate(ViewCheckout))
	draft, err := s.Checkout(validCustomer())
	require.NoError(t, err)
	return draft
}

func TestNewSessionRequiresCollaborators(t *testing.T) {
	if _, err := NewSession(nil, &stubOrders{}); err == nil {
		t.Fatal("expected missing product source to fail")
	}
	if _, err := NewSession(&stubProducts{}, nil); err == nil {
		t.Fatal("expected missing order sink to fail")
	}
}

func TestSessionAddToCartUnknownProduct(t *testing.T) {
	s := newTestSession(t, &stubOrders{})
	err := s.AddToCart(404)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if s.ItemCount() != 0 {
		t.Fatalf("cart should be empty, got %d", s.ItemCount())
	}
}

func TestSessionNavigateEmptyCartToCheckoutIsNoop(t *testing.T) {
	s := newTestSession(t, &stubOrders{})
	require.True(t, s.Navigate(ViewCart))
	assert.False(t, s.Navigate(ViewCheckout))
	assert.Equal(t, ViewCart, s.View())
}

func TestSessionUpdateQuantityInput(t *testing.T) {
	s := newTestSession(t, &stubOrders{})
	require.NoError(t, s.AddToCart(1))

	assert.Equal(t, 1, s.UpdateQuantityInput(1, "abc"))
	assert.Equal(t, 1, s.ItemCount())

	assert.Equal(t, 4, s.UpdateQuantityInput(1, "4"))
	assert.Equal(t, 4, s.ItemCount())

	assert.Equal(t, -2, s.UpdateQuantityInput(1, "-2"))
	assert.Empty(t, s.CartItems())
}

func TestSessionSubmitSuccessClearsCartAndResetsView(t *testing.T) {
	orders := &stubOrders{orderID: "42"}
	s := newTestSession(t, orders)
	draft := checkoutReady(t, s)

	result, err := s.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, SubmitResult{OrderID: "42", Applied: true}, result)

	state := s.State()
	assert.Empty(t, state.Items)
	assert.Equal(t, ViewCatalog, state.View)
	assert.False(t, state.Submitting)
	assert.True(t, state.Totals.Total.IsZero())

	require.Len(t, orders.drafts, 1)
	assert.Equal(t, draft.ID, orders.drafts[0].ID)
	assert.Equal(t, "44.98", orders.drafts[0].Totals.Subtotal.String())
}

func TestSessionSubmitFailureLeavesStateUntouched(t *testing.T) {
	failures := []error{
		errors.New("connection reset"),
		pkgerrors.New(pkgerrors.CodeDependency, "POST /api/orders returned status 500"),
	}
	for _, failure := range failures {
		orders := &stubOrders{err: failure}
		s := newTestSession(t, orders)
		draft := checkoutReady(t, s)
		before := s.State()

		_, err := s.Submit(context.Background(), draft)
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			t.Fatalf("expected dependency error, got %v", err)
		}
		if !errors.Is(err, failure) {
			t.Fatalf("expected cause to be preserved, got %v", err)
		}

		after := s.State()
		assert.Equal(t, before, after)
		assert.Equal(t, ViewCheckout, after.View)
	}
}

func TestSessionSubmitEmptyOrderIDIsFailure(t *testing.T) {
	s := newTestSession(t, &stubOrders{orderID: ""})
	draft := checkoutReady(t, s)
	before := s.State()

	_, err := s.Submit(context.Background(), draft)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, before, s.State())
}

func TestSessionSubmitCanBeRetriedAfterFailure(t *testing.T) {
	orders := &stubOrders{err: errors.New("timeout")}
	s := newTestSession(t, orders)
	draft := checkoutReady(t, s)

	_, err := s.Submit(context.Background(), draft)
	require.Error(t, err)

	orders.err = nil
	orders.orderID = "7"
	result, err := s.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	require.Len(t, orders.drafts, 2)
	assert.Equal(t, orders.drafts[0].ID, orders.drafts[1].ID, "resubmission reuses the idempotency key")
}

func TestSessionRejectsConcurrentSubmission(t *testing.T) {
	orders := &stubOrders{orderID: "1"}
	s := newTestSession(t, orders)
	draft := checkoutReady(t, s)

	var inner error
	orders.hook = func() {
		assert.True(t, s.Submitting())
		_, inner = s.Submit(context.Background(), draft)
	}

	result, err := s.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	if !pkgerrors.IsCode(inner, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict for in-flight submission, got %v", inner)
	}
	assert.Len(t, orders.drafts, 1)
}

func TestSessionStaleSubmissionDoesNotClearNewCart(t *testing.T) {
	orders := &stubOrders{orderID: "9"}
	s := newTestSession(t, orders)
	draft := checkoutReady(t, s)

	orders.hook = func() {
		s.RemoveFromCart(2)
		s.Navigate(ViewCart)
	}

	result, err := s.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "9", result.OrderID)
	assert.False(t, result.Applied)

	items := s.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Product.ID)
	assert.Equal(t, ViewCart, s.View())
}

func TestSessionCheckoutValidationDoesNotMutate(t *testing.T) {
	s := newTestSession(t, &stubOrders{})
	before := s.State()
	_, err := s.Checkout(validCustomer())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, before, s.State())
}

func TestSessionSubmitNilDraft(t *testing.T) {
	s := newTestSession(t, &stubOrders{})
	_, err := s.Submit(context.Background(), nil)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSessionConcurrentCartMutations(t *testing.T) {
	s := newTestSession(t, &stubOrders{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddToCart(1)
		}()
	}
	wg.Wait()

	items := s.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestSessionCatalogLoadFailure(t *testing.T) {
	source := &stubProducts{err: errors.New("503")}
	s, err := NewSession(source, &stubOrders{})
	require.NoError(t, err)

	err = s.LoadCatalog(context.Background())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, CatalogError, s.Catalog().Status())
	assert.Empty(t, s.Catalog().Products())
	assert.True(t, pkgerrors.IsCode(s.AddToCart(1), pkgerrors.CodeNotFound))
}

func TestSessionSupersededLoadIsNotCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	var s *Session
	first := true
	source := funcSource(func(ctx context.Context) ([]Product, error) {
		if first {
			first = false
			require.NoError(t, s.LoadCatalog(ctx))
			return nil, errors.New("late failure")
		}
		return []Product{testProduct(1, "1")}, nil
	})
	s, err := NewSession(source, &stubOrders{}, WithMetrics(metrics.NewStorefrontMetrics(reg)))
	require.NoError(t, err)

	require.NoError(t, s.LoadCatalog(context.Background()))
	assert.Equal(t, CatalogReady, s.Catalog().Status())
	assert.Equal(t, 1.0, catalogLoads(t, reg, metrics.OutcomeSuccess))
	assert.Equal(t, 1.0, catalogLoads(t, reg, metrics.OutcomeStale))
	assert.Zero(t, catalogLoads(t, reg, metrics.OutcomeFailure))
}

func catalogLoads(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "storefront_catalog_loads_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
