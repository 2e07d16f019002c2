package shell

import (
	"context"
	"flag"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mystore/internal/storefront"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

func (s *Shell) execAdmin(ctx context.Context, args []string) error {
	if s.admin == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "admin commands are not available")
	}
	if len(args) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage: admin product-create|skus|sku-create [flags]")
	}

	switch args[0] {
	case "product-create":
		req, err := parseProductDraft(args[1:])
		if err != nil {
			return err
		}
		product, err := s.admin.CreateProduct(ctx, req)
		if err != nil {
			return err
		}
		s.printf("created product %d (%s)\n", product.ID, product.Name)
		if err := s.session.LoadCatalog(ctx); err != nil {
			return err
		}
		return nil

	case "skus":
		fs := newFlagSet("skus")
		productID := fs.Int64("product", 0, "only list SKUs of this product")
		if err := fs.Parse(args[1:]); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flags")
		}
		skus, err := s.admin.ListSKUs(ctx)
		if err != nil {
			return err
		}
		shown := 0
		for _, sku := range skus {
			if *productID != 0 && sku.ProductID != *productID {
				continue
			}
			s.printf("%d\tproduct=%d\t%s\tstock=%d\n", sku.ID, sku.ProductID, sku.Code, sku.StockQuantity)
			shown++
		}
		if shown == 0 {
			s.println("no SKUs")
		}
		return nil

	case "sku-create":
		fs := newFlagSet("sku-create")
		productID := fs.Int64("product", 0, "owning product id")
		code := fs.String("code", "", "SKU code")
		stock := fs.Int("stock", 0, "units in stock")
		if err := fs.Parse(args[1:]); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flags")
		}
		details := map[string]string{}
		if *productID < 1 {
			details["productId"] = "is required"
		}
		if strings.TrimSpace(*code) == "" {
			details["code"] = "is required"
		}
		if *stock < 0 {
			details["stockQuantity"] = "must not be negative"
		}
		if len(details) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sku is incomplete").WithDetails(details)
		}
		sku, err := s.admin.CreateSKU(ctx, storeapi.CreateSKURequest{
			ProductID:     *productID,
			Code:          strings.TrimSpace(*code),
			StockQuantity: *stock,
		})
		if err != nil {
			return err
		}
		s.printf("created sku %d (%s)\n", sku.ID, sku.Code)
		return nil
	}
	return pkgerrors.Newf(pkgerrors.CodeValidation, "unknown admin command %q", args[0])
}

// parseProductDraft reads product-create flags into a draft. Only flags that were
// actually given are set, so Promote can report what is missing.
func parseProductDraft(args []string) (storeapi.CreateProductRequest, error) {
	fs := newFlagSet("product-create")
	fs.String("name", "", "product name")
	fs.String("description", "", "product description")
	fs.String("price", "", "unit price")
	fs.String("image", "", "image url")
	fs.String("category", "", "category")
	fs.String("sku", "", "sku code")
	fs.Int("stock", 0, "units in stock")
	if err := fs.Parse(args); err != nil {
		return storeapi.CreateProductRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flags")
	}

	var draft storefront.ProductDraft
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "name":
			draft.Name = &value
		case "description":
			draft.Description = &value
		case "image":
			draft.ImageURL = &value
		case "category":
			draft.Category = &value
		case "sku":
			draft.SKU = &value
		case "price":
			price, err := decimal.NewFromString(strings.TrimSpace(value))
			if err != nil {
				parseErr = pkgerrors.New(pkgerrors.CodeValidation, "product draft is incomplete").
					WithDetails(map[string]string{"price": "must be a number"})
				return
			}
			draft.Price = &price
		case "stock":
			stock := f.Value.(flag.Getter).Get().(int)
			draft.StockQuantity = &stock
		}
	})
	if parseErr != nil {
		return storeapi.CreateProductRequest{}, parseErr
	}
	return draft.Promote()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
