package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	body := `{"userDetails":{"name":"Ada","address":{"street":"1 Main","city":"","state":"IL","postalCode":"1","country":"US"}},"items":[{"productId":1,"quantity":0,"priceAtTime":1}],"subtotal":0,"tax":0,"total":0}`
	req := httptest.NewRequest("POST", "/api/orders", strings.NewReader(body))

	var dest storeapi.OrderRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if _, ok := details["userDetails.address.city"]; !ok {
		t.Fatalf("expected nested city detail, got %v", details)
	}
	if _, ok := details["items[0].quantity"]; !ok {
		t.Fatalf("expected item quantity detail, got %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/skus", strings.NewReader(`{"productId":1,"code":"A","bogus":true}`))
	var dest storeapi.CreateSKURequest
	if err := DecodeJSONBody(req, &dest); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyEdgeCases(t *testing.T) {
	cases := map[string]struct {
		body    string
		message string
		field   string
	}{
		"empty":       {body: "", message: "request body is required"},
		"wrong type":  {body: `{"productId":"one","code":"A"}`, message: "invalid request body", field: "productId"},
		"two objects": {body: `{"productId":1,"code":"A"}{}`, message: "request body must hold a single JSON value"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/skus", strings.NewReader(tc.body))
			var dest storeapi.CreateSKURequest
			typed := pkgerrors.As(DecodeJSONBody(req, &dest))
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", typed)
			}
			if typed.Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, typed.Message())
			}
			if tc.field != "" {
				if _, ok := typed.Details().(map[string]string)[tc.field]; !ok {
					t.Fatalf("expected detail for %s, got %v", tc.field, typed.Details())
				}
			}
		})
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/skus?productId=7&bad=x", nil)
	if v, err := ParseQueryInt(req, "productId", 0, 0, 100); err != nil || v != 7 {
		t.Fatalf("expected 7, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 3, 0, 100); err != nil || v != 3 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 0, 0, 100); err == nil {
		t.Fatal("expected non numeric to fail")
	}
	if _, err := ParseQueryInt(req, "productId", 0, 10, 100); err == nil {
		t.Fatal("expected out of range to fail")
	}
}

func TestParsePathID(t *testing.T) {
	if id, err := ParsePathID("12", "orderId"); err != nil || id != 12 {
		t.Fatalf("expected 12, got %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc"} {
		if _, err := ParsePathID(raw, "orderId"); err == nil {
			t.Fatalf("expected %q to fail", raw)
		}
	}
}
