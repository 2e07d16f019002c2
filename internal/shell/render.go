package shell

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/mystore/internal/storefront"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (s *Shell) renderCatalog() {
	catalog := s.session.Catalog()
	switch catalog.Status() {
	case storefront.CatalogLoading:
		s.println("loading products...")
		return
	case storefront.CatalogError:
		s.println("products could not be loaded; try reload")
		return
	}

	products := catalog.Products()
	if len(products) == 0 {
		s.println("no products available")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tSTOCK")
	for _, p := range products {
		category := "-"
		if p.Category != nil {
			category = *p.Category
		}
		stock := "-"
		if p.StockQuantity != nil {
			stock = fmt.Sprint(*p.StockQuantity)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, money(p.Price), category, stock)
	}
	tw.Flush()
}

func (s *Shell) renderCart() {
	state := s.session.State()
	if len(state.Items) == 0 {
		s.println("your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tUNIT\tLINE")
	for _, item := range state.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			item.Product.ID, item.Product.Name, item.Quantity, money(item.Product.Price), money(item.LineTotal()))
	}
	tw.Flush()
	s.renderTotals(state.Totals)
	s.printf("%d item(s)\n", state.ItemCount)
}

func (s *Shell) renderDraft(draft *storefront.OrderDraft) {
	c := draft.Customer
	s.printf("ship to %s, %s\n", c.Name, strings.Join([]string{
		c.Address.Street, c.Address.City, c.Address.State, c.Address.PostalCode, c.Address.Country,
	}, ", "))
	for _, item := range draft.Items {
		s.printf("  %d x %s @ %s\n", item.Quantity, item.Name, money(item.PriceAtTime))
	}
	s.renderTotals(draft.Totals)
}

func (s *Shell) renderTotals(t storefront.Totals) {
	s.printf("subtotal %s  tax %s  total %s\n", money(t.Subtotal), money(t.Tax), money(t.Total))
}

func (s *Shell) renderHelp() {
	s.println(strings.TrimSpace(`
products                 show the catalog
reload                   fetch the catalog again
add <id>                 add a product to the cart
rm <id>                  remove a product from the cart
qty <id> <n>             set a quantity; 0 or less removes the line
cart                     show the cart
checkout                 enter shipping details and review the order
submit                   place the reviewed order
back | cancel            leave the current view
admin product-create     -name -price [-description -image -category -sku -stock]
admin skus               [-product <id>]
admin sku-create         -product <id> -code <code> [-stock <n>]
quit                     leave`))
}
