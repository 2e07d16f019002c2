package storefront

import "testing"

func TestNavigatorTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		from      View
		to        View
		cartEmpty bool
		want      View
		moved     bool
	}{
		{"catalog to cart", ViewCatalog, ViewCart, true, ViewCart, true},
		{"cart to checkout", ViewCart, ViewCheckout, false, ViewCheckout, true},
		{"cart to checkout on empty cart", ViewCart, ViewCheckout, true, ViewCart, false},
		{"checkout to catalog", ViewCheckout, ViewCatalog, false, ViewCatalog, true},
		{"checkout to cart", ViewCheckout, ViewCart, false, ViewCart, true},
		{"cart to catalog", ViewCart, ViewCatalog, false, ViewCatalog, true},
		{"catalog to checkout", ViewCatalog, ViewCheckout, false, ViewCatalog, false},
		{"catalog to catalog", ViewCatalog, ViewCatalog, false, ViewCatalog, false},
		{"unknown view", ViewCart, View("orders"), false, ViewCart, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := &Navigator{current: tc.from}
			moved := nav.Go(tc.to, tc.cartEmpty)
			if moved != tc.moved {
				t.Fatalf("expected moved=%v, got %v", tc.moved, moved)
			}
			if nav.Current() != tc.want {
				t.Fatalf("expected view %s, got %s", tc.want, nav.Current())
			}
		})
	}
}

func TestNavigatorStartsOnCatalogAndResets(t *testing.T) {
	t.Parallel()

	nav := NewNavigator()
	if nav.Current() != ViewCatalog {
		t.Fatalf("expected initial view catalog, got %s", nav.Current())
	}
	nav.Go(ViewCart, false)
	nav.Go(ViewCheckout, false)
	nav.Reset()
	if nav.Current() != ViewCatalog {
		t.Fatalf("expected catalog after reset, got %s", nav.Current())
	}
}

func TestParseView(t *testing.T) {
	t.Parallel()

	v, err := ParseView(" Checkout ")
	if err != nil || v != ViewCheckout {
		t.Fatalf("expected checkout, got %q (%v)", v, err)
	}
	if _, err := ParseView("admin"); err == nil {
		t.Fatal("expected unknown view to fail")
	}
}
