package storefront

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

func validCustomer() CustomerDetails {
	return CustomerDetails{
		Name: "Ada Lovelace",
		Address: Address{
			Street:     "12 Analytical Way",
			City:       "London",
			State:      "Greater London",
			PostalCode: "N1 9GU",
			Country:    "UK",
		},
	}
}

func TestComputeTotalsExample(t *testing.T) {
	t.Parallel()

	items := []LineItem{{Product: testProduct(1, "19.99"), Quantity: 3}}
	totals := ComputeTotals(items, DefaultTaxRate)

	assert.Equal(t, "59.97", totals.Subtotal.String())
	assert.Equal(t, "5.997", totals.Tax.String())
	assert.Equal(t, "65.967", totals.Total.String())
}

func TestComputeTotalsEmpty(t *testing.T) {
	t.Parallel()

	totals := ComputeTotals(nil, DefaultTaxRate)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComposerRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	_, err := NewComposer(DefaultTaxRate).Compose(nil, validCustomer())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "items")
}

func TestComposerRejectsMissingFields(t *testing.T) {
	t.Parallel()

	items := []LineItem{{Product: testProduct(1, "1"), Quantity: 1}}
	cases := map[string]func(c *CustomerDetails){
		"name":               func(c *CustomerDetails) { c.Name = "" },
		"address.street":     func(c *CustomerDetails) { c.Address.Street = "" },
		"address.city":       func(c *CustomerDetails) { c.Address.City = "" },
		"address.state":      func(c *CustomerDetails) { c.Address.State = "" },
		"address.postalCode": func(c *CustomerDetails) { c.Address.PostalCode = "" },
		"address.country":    func(c *CustomerDetails) { c.Address.Country = "" },
	}

	composer := NewComposer(DefaultTaxRate)
	for field, mutate := range cases {
		customer := validCustomer()
		mutate(&customer)

		draft, err := composer.Compose(items, customer)
		if err == nil {
			t.Fatalf("%s: expected validation error, got draft %+v", field, draft)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation code, got %v", field, err)
		}
		details := typed.Details().(map[string]string)
		if details[field] != "is required" {
			t.Fatalf("%s: expected field detail, got %v", field, details)
		}
	}
}

func TestComposerReportsAllProblems(t *testing.T) {
	t.Parallel()

	_, err := NewComposer(DefaultTaxRate).Compose(nil, CustomerDetails{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Len(t, details, 7)
}

func TestComposerSnapshotsPrices(t *testing.T) {
	t.Parallel()

	catalog := []Product{testProduct(1, "19.99"), testProduct(2, "5.00")}
	items := []LineItem{{Product: catalog[0], Quantity: 3}, {Product: catalog[1], Quantity: 1}}

	draft, err := NewComposer(DefaultTaxRate).Compose(items, validCustomer())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, draft.ID)

	catalog[0].Price = decimal.RequireFromString("99.99")
	items[0].Product.Price = decimal.RequireFromString("99.99")
	items[0].Quantity = 10

	require.Len(t, draft.Items, 2)
	assert.Equal(t, "19.99", draft.Items[0].PriceAtTime.String())
	assert.Equal(t, 3, draft.Items[0].Quantity)
	assert.Equal(t, "64.97", draft.Totals.Subtotal.String())
	assert.Equal(t, "6.497", draft.Totals.Tax.String())
	assert.Equal(t, "71.467", draft.Totals.Total.String())
}

func TestComposerKeepsCustomerDetailsVerbatim(t *testing.T) {
	t.Parallel()

	customer := validCustomer()
	customer.Name = "  Ada  "
	customer.Address.City = "   "
	draft, err := NewComposer(DefaultTaxRate).Compose([]LineItem{{Product: testProduct(1, "1"), Quantity: 1}}, customer)
	require.NoError(t, err)
	assert.Equal(t, "  Ada  ", draft.Customer.Name)
	assert.Equal(t, "   ", draft.Customer.Address.City)
}

func TestComposerCustomTaxRate(t *testing.T) {
	t.Parallel()

	composer := NewComposer(decimal.RequireFromString("0.0825"))
	totals := composer.Totals([]LineItem{{Product: testProduct(1, "100"), Quantity: 1}})
	assert.Equal(t, "8.25", totals.Tax.String())

	negative := NewComposer(decimal.RequireFromString("-1"))
	assert.True(t, negative.TaxRate().Equal(DefaultTaxRate))
}

func TestProductDraftPromote(t *testing.T) {
	t.Parallel()

	if _, err := (ProductDraft{}).Promote(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for empty draft, got %v", err)
	}

	name := " Mug "
	price := decimal.RequireFromString("-1")
	stock := -2
	err := ProductDraft{Name: &name, Price: &price, StockQuantity: &stock}.Validate()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "stockQuantity")

	price = decimal.RequireFromString("12.50")
	stock = 3
	blank := "  "
	req, err := ProductDraft{Name: &name, Price: &price, StockQuantity: &stock, Category: &blank}.Promote()
	require.NoError(t, err)
	assert.Equal(t, "Mug", req.Name)
	assert.Equal(t, "", req.Description)
	assert.Nil(t, req.Category)
	require.NotNil(t, req.StockQuantity)
	assert.Equal(t, 3, *req.StockQuantity)
}
