package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/mystore/pkg/storeapi"
)

type storeClient interface {
	ListProducts(ctx context.Context) ([]storeapi.Product, error)
	CreateOrder(ctx context.Context, req storeapi.OrderRequest, idempotencyKey string) (*storeapi.OrderResponse, error)
}

// APIGateway serves the catalog and accepts orders through the storefront HTTP API.
type APIGateway struct {
	client storeClient
}

func NewAPIGateway(client storeClient) (*APIGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("store api client required")
	}
	return &APIGateway{client: client}, nil
}

func (g *APIGateway) ListProducts(ctx context.Context) ([]Product, error) {
	wire, err := g.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(wire))
	for _, p := range wire {
		products = append(products, productFromWire(p))
	}
	return products, nil
}

// SubmitOrder posts the draft using its id as the idempotency key.
func (g *APIGateway) SubmitOrder(ctx context.Context, draft OrderDraft) (string, error) {
	resp, err := g.client.CreateOrder(ctx, OrderRequestFromDraft(draft), draft.ID.String())
	if err != nil {
		return "", err
	}
	return resp.OrderID.String(), nil
}

// OrderRequestFromDraft builds the POST /api/orders body.
func OrderRequestFromDraft(draft OrderDraft) storeapi.OrderRequest {
	items := make([]storeapi.OrderItem, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, storeapi.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}
	addr := draft.Customer.Address
	return storeapi.OrderRequest{
		UserDetails: storeapi.UserDetails{
			Name: draft.Customer.Name,
			Address: storeapi.Address{
				Street:     addr.Street,
				City:       addr.City,
				State:      addr.State,
				PostalCode: addr.PostalCode,
				Country:    addr.Country,
			},
		},
		Items:    items,
		Subtotal: draft.Totals.Subtotal,
		Tax:      draft.Totals.Tax,
		Total:    draft.Totals.Total,
	}
}
