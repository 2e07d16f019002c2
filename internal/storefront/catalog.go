package storefront

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

// CatalogStatus is the load state of the product list.
type CatalogStatus string

const (
	CatalogLoading CatalogStatus = "loading"
	CatalogError   CatalogStatus = "error"
	CatalogReady   CatalogStatus = "ready"
)

// ErrLoadSuperseded is returned by a Load whose result was discarded because a newer
// Load started while it was in flight.
var ErrLoadSuperseded = errors.New("catalog load superseded")

// ProductSource fetches the full product list.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Catalog owns the product list for the session.
type Catalog struct {
	mu         sync.RWMutex
	source     ProductSource
	status     CatalogStatus
	err        error
	products   []Product
	byID       map[int64]int
	generation uint64
}

func NewCatalog(source ProductSource) *Catalog {
	return &Catalog{
		source: source,
		status: CatalogLoading,
		byID:   map[int64]int{},
	}
}

// Load fetches products once. On failure the list is emptied and the status becomes error.
// When a newer Load started while this one was in flight, its result is discarded and
// ErrLoadSuperseded is returned whatever the fetch produced.
func (c *Catalog) Load(ctx context.Context) error {
	if c.source == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "catalog source not configured")
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.status = CatalogLoading
	c.err = nil
	c.mu.Unlock()

	products, err := c.source.ListProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrLoadSuperseded
	}
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		c.status = CatalogError
		c.err = err
		c.products = nil
		c.byID = map[int64]int{}
		return err
	}

	c.products = make([]Product, len(products))
	copy(c.products, products)
	c.byID = make(map[int64]int, len(products))
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	c.status = CatalogReady
	return nil
}

func (c *Catalog) Status() CatalogStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Err returns the last load failure, if the catalog is in the error state.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Products returns a copy of the list in server order.
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Product(id int64) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}
