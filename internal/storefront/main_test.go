package storefront

import (
	"os"
	"testing"

	"github.com/angelmondragon/mystore/pkg/storeapi"
)

func TestMain(m *testing.M) {
	storeapi.UseNumericPrices()
	os.Exit(m.Run())
}
