package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/mystore/internal/storefront"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

// Admin is the slice of the storefront API used by the admin commands.
type Admin interface {
	CreateProduct(ctx context.Context, req storeapi.CreateProductRequest) (*storeapi.Product, error)
	ListSKUs(ctx context.Context) ([]storeapi.SKU, error)
	CreateSKU(ctx context.Context, req storeapi.CreateSKURequest) (*storeapi.SKU, error)
}

// Shell is a line-oriented front end for a storefront session.
type Shell struct {
	session *storefront.Session
	admin   Admin
	in      *bufio.Scanner
	out     io.Writer
	logg    *logger.Logger

	draft *storefront.OrderDraft
}

func New(session *storefront.Session, admin Admin, in io.Reader, out io.Writer, logg *logger.Logger) (*Shell, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if in == nil || out == nil {
		return nil, fmt.Errorf("input and output are required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Shell{
		session: session,
		admin:   admin,
		in:      bufio.NewScanner(in),
		out:     out,
		logg:    logg,
	}, nil
}

// Run reads commands until quit, end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	s.println("storefront ready; type help for commands")
	if err := s.session.LoadCatalog(ctx); err != nil {
		s.printErr(err)
	} else {
		s.renderCatalog()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, ok := s.prompt(fmt.Sprintf("[%s] > ", s.session.View()))
		if !ok {
			return s.in.Err()
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			s.printErr(err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line. quit is true once the user asked to leave.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	args, err := SplitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	ctx = s.logg.WithView(ctx, s.session.View().String())
	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help", "?":
		s.renderHelp()
	case "quit", "exit":
		return true, nil
	case "products", "catalog":
		s.session.Navigate(storefront.ViewCatalog)
		s.renderCatalog()
	case "reload":
		if err := s.session.LoadCatalog(ctx); err != nil {
			return false, err
		}
		s.renderCatalog()
	case "add":
		id, err := productArg(rest)
		if err != nil {
			return false, err
		}
		if err := s.session.AddToCart(id); err != nil {
			return false, err
		}
		s.printf("added product %d; %d item(s) in cart\n", id, s.session.ItemCount())
	case "rm", "remove":
		id, err := productArg(rest)
		if err != nil {
			return false, err
		}
		s.session.RemoveFromCart(id)
		s.printf("%d item(s) in cart\n", s.session.ItemCount())
	case "qty":
		if len(rest) != 2 {
			return false, pkgerrors.New(pkgerrors.CodeValidation, "usage: qty <productId> <quantity>")
		}
		id, err := productArg(rest[:1])
		if err != nil {
			return false, err
		}
		qty := s.session.UpdateQuantityInput(id, rest[1])
		if qty < 1 {
			s.printf("removed product %d\n", id)
		} else {
			s.printf("product %d quantity set to %d\n", id, qty)
		}
	case "cart":
		s.session.Navigate(storefront.ViewCart)
		s.renderCart()
	case "checkout":
		return false, s.checkout()
	case "back":
		s.back()
	case "cancel":
		s.draft = nil
		if s.session.View() == storefront.ViewCheckout {
			s.session.Navigate(storefront.ViewCart)
		}
		s.println("checkout cancelled")
	case "submit":
		return false, s.submit(ctx)
	case "admin":
		return false, s.execAdmin(ctx, rest)
	default:
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown command %q; type help", cmd)
	}
	return false, nil
}

func (s *Shell) checkout() error {
	if s.session.View() == storefront.ViewCatalog {
		s.session.Navigate(storefront.ViewCart)
	}
	if s.session.View() != storefront.ViewCheckout && !s.session.Navigate(storefront.ViewCheckout) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var customer storefront.CustomerDetails
	fields := []struct {
		label string
		dest  *string
	}{
		{"name", &customer.Name},
		{"street", &customer.Address.Street},
		{"city", &customer.Address.City},
		{"state", &customer.Address.State},
		{"postal code", &customer.Address.PostalCode},
		{"country", &customer.Address.Country},
	}
	for _, f := range fields {
		value, ok := s.prompt(f.label + ": ")
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout aborted")
		}
		*f.dest = value
	}

	draft, err := s.session.Checkout(customer)
	if err != nil {
		return err
	}
	s.draft = draft
	s.renderDraft(draft)
	s.println("type submit to place the order, cancel to return to the cart")
	return nil
}

func (s *Shell) submit(ctx context.Context) error {
	if s.draft == nil || s.session.View() != storefront.ViewCheckout {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to submit; run checkout first")
	}
	result, err := s.session.Submit(ctx, s.draft)
	if err != nil {
		return err
	}
	if !result.Applied {
		s.printf("order %s placed, but the cart changed meanwhile and was kept\n", result.OrderID)
	} else {
		s.printf("order %s placed, thank you!\n", result.OrderID)
	}
	s.draft = nil
	return nil
}

func (s *Shell) back() {
	switch s.session.View() {
	case storefront.ViewCheckout:
		s.draft = nil
		s.session.Navigate(storefront.ViewCart)
		s.renderCart()
	case storefront.ViewCart:
		s.session.Navigate(storefront.ViewCatalog)
		s.renderCatalog()
	default:
		s.println("already on the catalog")
	}
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func productArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "a single product id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid product id %q", args[0])
	}
	return id, nil
}

func (s *Shell) printErr(err error) {
	if appErr := pkgerrors.As(err); appErr != nil {
		s.printf("error: %s\n", appErr.Message())
		details := map[string]string{}
		switch d := appErr.Details().(type) {
		case map[string]string:
			details = d
		case map[string]any:
			for k, v := range d {
				details[k] = fmt.Sprint(v)
			}
		}
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.printf("  %s: %s\n", k, details[k])
		}
		if hint := pkgerrors.MetadataFor(appErr.Code()).Hint; hint != "" {
			s.printf("  (%s)\n", hint)
		}
		return
	}
	s.printf("error: %v\n", err)
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
