package orders

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	baserepo "github.com/angelmondragon/mystore/internal/repo"
	"github.com/angelmondragon/mystore/pkg/db/models"
	"github.com/angelmondragon/mystore/pkg/enums"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// priceLookup resolves the current catalog rows for a set of product ids.
type priceLookup interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

// Service places and reads storefront orders.
type Service interface {
	Place(ctx context.Context, req storeapi.OrderRequest) (*storeapi.OrderResponse, error)
	Get(ctx context.Context, id int64) (*storeapi.Order, error)
}

type service struct {
	repo     Repository
	products priceLookup
	tx       txRunner
	taxRate  decimal.Decimal
	validate *validator.Validate
	logg     *logger.Logger
}

// NewService wires the order service. taxRate must match the rate clients price with.
func NewService(repo Repository, products priceLookup, tx txRunner, taxRate decimal.Decimal, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return &service{
		repo:     repo,
		products: products,
		tx:       tx,
		taxRate:  taxRate,
		validate: v,
		logg:     logg,
	}, nil
}

// Place validates the request against the live catalog and persists a PENDING order.
// Each priceAtTime must equal the current price and the totals must match the recomputed ones.
func (s *service) Place(ctx context.Context, req storeapi.OrderRequest) (*storeapi.OrderResponse, error) {
	req.UserDetails = normalizeUserDetails(req.UserDetails)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order products")
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		product, ok := catalog[item.ProductID]
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", item.ProductID)
		}
		if !product.Price.Equal(item.PriceAtTime) {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "price for product %d has changed", item.ProductID).
				WithDetails(map[string]any{
					"field":        fmt.Sprintf("items[%d].priceAtTime", i),
					"currentPrice": product.Price,
				})
		}
		subtotal = subtotal.Add(item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}

	tax := subtotal.Mul(s.taxRate)
	total := subtotal.Add(tax)
	mismatch := map[string]string{}
	if !subtotal.Equal(req.Subtotal) {
		mismatch["subtotal"] = "expected " + subtotal.String()
	}
	if !tax.Equal(req.Tax) {
		mismatch["tax"] = "expected " + tax.String()
	}
	if !total.Equal(req.Total) {
		mismatch["total"] = "expected " + total.String()
	}
	if len(mismatch) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order totals do not match").WithDetails(mismatch)
	}

	addr := req.UserDetails.Address
	order := &models.Order{
		Status:       enums.OrderStatusPending,
		CustomerName: req.UserDetails.Name,
		Street:       addr.Street,
		City:         addr.City,
		State:        addr.State,
		PostalCode:   addr.PostalCode,
		Country:      addr.Country,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		Items:        items,
	}

	var created *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	ctx = s.logg.WithOrderID(ctx, strconv.FormatInt(created.ID, 10))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"items": len(created.Items),
		"total": created.Total.String(),
	}), "order placed")
	return &storeapi.OrderResponse{OrderID: storeapi.OrderID(strconv.FormatInt(created.ID, 10))}, nil
}

func (s *service) Get(ctx context.Context, orderID int64) (*storeapi.Order, error) {
	if orderID < 1 {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order id %d", orderID)
	}
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, baserepo.LookupError(err, "order", orderID)
	}
	return toWire(row), nil
}

func (s *service) validateRequest(req storeapi.OrderRequest) error {
	details := map[string]string{}
	if len(req.Items) == 0 {
		details["items"] = "must contain at least one item"
	}
	if err := s.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order request is invalid")
		}
		for _, fe := range errs {
			path := fieldPath(fe)
			if _, exists := details[path]; !exists {
				details[path] = validationMessage(fe)
			}
		}
	}
	seen := make(map[int64]struct{}, len(req.Items))
	for i, item := range req.Items {
		if item.PriceAtTime.IsNegative() {
			details[fmt.Sprintf("items[%d].priceAtTime", i)] = "must not be negative"
		}
		if _, dup := seen[item.ProductID]; dup {
			details[fmt.Sprintf("items[%d].productId", i)] = "duplicate product"
		}
		seen[item.ProductID] = struct{}{}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func normalizeUserDetails(u storeapi.UserDetails) storeapi.UserDetails {
	return storeapi.UserDetails{
		Name: strings.TrimSpace(u.Name),
		Address: storeapi.Address{
			Street:     strings.TrimSpace(u.Address.Street),
			City:       strings.TrimSpace(u.Address.City),
			State:      strings.TrimSpace(u.Address.State),
			PostalCode: strings.TrimSpace(u.Address.PostalCode),
			Country:    strings.TrimSpace(u.Address.Country),
		},
	}
}

func toWire(row *models.Order) *storeapi.Order {
	items := make([]storeapi.OrderItem, 0, len(row.Items))
	for _, item := range row.Items {
		items = append(items, storeapi.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}
	return &storeapi.Order{
		ID:     row.ID,
		Status: row.Status,
		UserDetails: storeapi.UserDetails{
			Name: row.CustomerName,
			Address: storeapi.Address{
				Street:     row.Street,
				City:       row.City,
				State:      row.State,
				PostalCode: row.PostalCode,
				Country:    row.Country,
			},
		},
		Items:     items,
		Subtotal:  row.Subtotal,
		Tax:       row.Tax,
		Total:     row.Total,
		CreatedAt: row.CreatedAt,
	}
}

// fieldPath strips the root type: "OrderRequest.userDetails.address.city" -> "userDetails.address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return "is invalid"
}
