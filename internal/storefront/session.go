package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/metrics"
)

// OrderSink places an order and returns the identifier assigned by the store.
type OrderSink interface {
	SubmitOrder(ctx context.Context, draft OrderDraft) (string, error)
}

// SubmitResult reports a placed order. Applied is false when the cart changed while the
// submission was in flight; the order was still placed but the cart and view were kept.
type SubmitResult struct {
	OrderID string
	Applied bool
}

// State is a point-in-time copy of the session for rendering.
type State struct {
	View          View
	Items         []LineItem
	ItemCount     int
	Totals        Totals
	CatalogStatus CatalogStatus
	Submitting    bool
}

// Session is the single state container of a storefront client: catalog, cart, view and
// the in-flight submission flag. All methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	catalog    *Catalog
	cart       *Cart
	nav        *Navigator
	composer   *Composer
	orders     OrderSink
	submitting bool

	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

type SessionOption func(*Session)

func WithLogger(logg *logger.Logger) SessionOption {
	return func(s *Session) {
		if logg != nil {
			s.logg = logg
		}
	}
}

func WithMetrics(m *metrics.StorefrontMetrics) SessionOption {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithTaxRate overrides DefaultTaxRate.
func WithTaxRate(rate decimal.Decimal) SessionOption {
	return func(s *Session) {
		s.composer = NewComposer(rate)
	}
}

// NewSession builds an empty session on the catalog view.
func NewSession(products ProductSource, orders OrderSink, opts ...SessionOption) (*Session, error) {
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order sink required")
	}
	s := &Session{
		catalog:  NewCatalog(products),
		cart:     NewCart(),
		nav:      NewNavigator(),
		composer: NewComposer(DefaultTaxRate),
		orders:   orders,
		logg:     logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// LoadCatalog (re)fetches the product list. Failures leave the catalog empty in the error state.
// A load overtaken by a newer one returns nil; the newer load reports the outcome.
func (s *Session) LoadCatalog(ctx context.Context) error {
	err := s.catalog.Load(ctx)
	if errors.Is(err, ErrLoadSuperseded) {
		s.metrics.IncCatalogLoad(metrics.OutcomeStale)
		s.logg.Debug(ctx, "catalog load superseded")
		return nil
	}
	if err != nil {
		s.metrics.IncCatalogLoad(metrics.OutcomeFailure)
		s.logg.Error(ctx, "catalog load failed", err)
		return err
	}
	s.metrics.IncCatalogLoad(metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithField(ctx, "products", len(s.catalog.Products())), "catalog loaded")
	return nil
}

// AddToCart adds the catalog product with the given id.
func (s *Session) AddToCart(productID int64) error {
	p, ok := s.catalog.Product(productID)
	if !ok {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not in catalog", productID)
	}
	s.AddProduct(p)
	return nil
}

// AddProduct merges p into the cart.
func (s *Session) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(p)
	s.metrics.IncCartMutation("add")
}

func (s *Session) RemoveFromCart(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
	s.metrics.IncCartMutation("remove")
}

// UpdateQuantity sets a line's quantity; values below 1 remove it.
func (s *Session) UpdateQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetQuantity(productID, quantity)
	s.metrics.IncCartMutation("set_quantity")
}

// UpdateQuantityInput coerces raw form input with ParseQuantity and applies it.
// The coerced value is returned.
func (s *Session) UpdateQuantityInput(productID int64, raw string) int {
	quantity := ParseQuantity(raw)
	s.UpdateQuantity(productID, quantity)
	return quantity
}

func (s *Session) CartItems() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount()
}

// Totals prices the current cart.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.Totals(s.cart.items)
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Current()
}

// Navigate requests a view change. Illegal transitions are ignored and return false.
func (s *Session) Navigate(target View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Go(target, s.cart.IsEmpty())
}

func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		View:          s.nav.Current(),
		Items:         s.cart.Items(),
		ItemCount:     s.cart.ItemCount(),
		Totals:        s.composer.Totals(s.cart.items),
		CatalogStatus: s.catalog.Status(),
		Submitting:    s.submitting,
	}
}

// Checkout composes a draft from the current cart. The session is not modified.
func (s *Session) Checkout(customer CustomerDetails) (*OrderDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.composer.Compose(s.cart.items, customer)
	if err != nil {
		return nil, err
	}
	draft.cartRevision = s.cart.Revision()
	return draft, nil
}

// Submit places draft. Only one submission may be in flight; a concurrent call fails with
// CodeConflict. On failure the cart and view are untouched. On success the cart is cleared
// and the view reset to the catalog in one step, unless the cart changed since the draft
// was composed, in which case the order id is reported with Applied false.
func (s *Session) Submit(ctx context.Context, draft *OrderDraft) (SubmitResult, error) {
	if draft == nil {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "order draft is required")
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		s.metrics.IncSubmission(metrics.OutcomeRejected)
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeConflict, "an order submission is already in flight")
	}
	s.submitting = true
	s.mu.Unlock()

	ctx = s.logg.WithDraftID(ctx, draft.ID.String())
	start := time.Now()
	orderID, err := s.orders.SubmitOrder(ctx, *draft)
	s.metrics.ObserveSubmission(time.Since(start))
	if err == nil && orderID == "" {
		err = pkgerrors.New(pkgerrors.CodeDependency, "order submission returned no order id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
		}
		s.metrics.IncSubmission(metrics.OutcomeFailure)
		s.logg.Error(ctx, "order submission failed", err)
		return SubmitResult{}, err
	}

	ctx = s.logg.WithOrderID(ctx, orderID)
	if s.cart.Revision() != draft.cartRevision {
		s.metrics.IncSubmission(metrics.OutcomeStale)
		s.logg.Warn(ctx, "order placed but cart changed during submission; keeping cart")
		return SubmitResult{OrderID: orderID}, nil
	}

	s.cart.Clear()
	s.nav.Reset()
	s.metrics.IncSubmission(metrics.OutcomeSuccess)
	s.logg.Info(ctx, "order placed")
	return SubmitResult{OrderID: orderID, Applied: true}, nil
}
