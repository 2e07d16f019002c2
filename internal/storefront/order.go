package storefront

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

// Address is the shipping destination. Every field is mandatory.
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CustomerDetails is what the checkout form collects.
type CustomerDetails struct {
	Name    string  `json:"name" validate:"required"`
	Address Address `json:"address"`
}

// DraftItem snapshots a cart line, including the unit price at composition time.
type DraftItem struct {
	ProductID   int64
	Name        string
	Quantity    int
	PriceAtTime decimal.Decimal
}

func (i DraftItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDraft is a validated, price-snapshotted order ready for submission.
// ID doubles as the idempotency key sent with the submission.
type OrderDraft struct {
	ID       uuid.UUID
	Customer CustomerDetails
	Items    []DraftItem
	Totals   Totals

	cartRevision uint64
}

// Composer builds order drafts from cart contents and checkout details.
type Composer struct {
	taxRate  decimal.Decimal
	validate *validator.Validate
}

// NewComposer builds a composer for the given tax rate. A negative rate falls back to DefaultTaxRate.
func NewComposer(taxRate decimal.Decimal) *Composer {
	if taxRate.IsNegative() {
		taxRate = DefaultTaxRate
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return &Composer{taxRate: taxRate, validate: v}
}

func (c *Composer) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Totals prices items with the composer's tax rate.
func (c *Composer) Totals(items []LineItem) Totals {
	return ComputeTotals(items, c.taxRate)
}

// Compose validates the inputs and snapshots items into a new draft. Nothing is mutated
// and customer details are submitted exactly as given: only empty strings are missing.
// Validation failures carry a field -> message details map; "items" is set for an empty cart.
func (c *Composer) Compose(items []LineItem, customer CustomerDetails) (*OrderDraft, error) {
	details := map[string]string{}
	if len(items) == 0 {
		details["items"] = "cart is empty"
	}
	if err := c.validate.Struct(customer); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "checkout details are invalid")
		}
		for _, fe := range errs {
			details[fieldPath(fe)] = validationMessage(fe)
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order cannot be placed").WithDetails(details)
	}

	draftItems := make([]DraftItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "product %d has invalid quantity %d", item.Product.ID, item.Quantity)
		}
		draftItems = append(draftItems, DraftItem{
			ProductID:   item.Product.ID,
			Name:        item.Product.Name,
			Quantity:    item.Quantity,
			PriceAtTime: item.Product.Price,
		})
	}

	return &OrderDraft{
		ID:       uuid.New(),
		Customer: customer,
		Items:    draftItems,
		Totals:   c.Totals(items),
	}, nil
}

// fieldPath drops the root struct name: "CustomerDetails.address.city" -> "address.city".
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
