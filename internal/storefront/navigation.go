package storefront

import (
	"fmt"
	"strings"
)

// View is the visible top-level screen.
type View string

const (
	ViewCatalog  View = "catalog"
	ViewCart     View = "cart"
	ViewCheckout View = "checkout"
)

func (v View) String() string {
	return string(v)
}

func (v View) IsValid() bool {
	switch v {
	case ViewCatalog, ViewCart, ViewCheckout:
		return true
	}
	return false
}

// ParseView accepts the view name case-insensitively.
func ParseView(value string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(value)))
	if !v.IsValid() {
		return "", fmt.Errorf("invalid view %q", value)
	}
	return v, nil
}

var viewTransitions = map[View][]View{
	ViewCatalog:  {ViewCart},
	ViewCart:     {ViewCheckout, ViewCatalog},
	ViewCheckout: {ViewCatalog, ViewCart},
}

// Navigator is the view state machine. It starts on the catalog and has no terminal state.
type Navigator struct {
	current View
}

func NewNavigator() *Navigator {
	return &Navigator{current: ViewCatalog}
}

func (n *Navigator) Current() View {
	return n.current
}

// CanGo reports whether moving to target is legal from the current view.
// Checkout additionally requires a non-empty cart.
func (n *Navigator) CanGo(target View, cartEmpty bool) bool {
	if target == ViewCheckout && cartEmpty {
		return false
	}
	for _, allowed := range viewTransitions[n.current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Go moves to target when legal. Illegal requests leave the view unchanged and return false.
func (n *Navigator) Go(target View, cartEmpty bool) bool {
	if !n.CanGo(target, cartEmpty) {
		return false
	}
	n.current = target
	return true
}

// Reset returns to the catalog unconditionally.
func (n *Navigator) Reset() {
	n.current = ViewCatalog
}
