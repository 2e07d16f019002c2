package skus

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/mystore/internal/products"
	"github.com/angelmondragon/mystore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

func setup(t *testing.T) (Service, models.Product) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	product := models.Product{Name: "Mug", Price: decimal.NewFromInt(10)}
	require.NoError(t, conn.Create(&product).Error)

	svc, err := NewService(NewRepository(conn), products.NewRepository(conn))
	require.NoError(t, err)
	return svc, product
}

func TestCreateAndList(t *testing.T) {
	svc, product := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, storeapi.CreateSKURequest{ProductID: product.ID, Code: " MUG-BLUE ", StockQuantity: 12})
	require.NoError(t, err)
	assert.Equal(t, "MUG-BLUE", created.Code)
	assert.Equal(t, 12, created.StockQuantity)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)

	byProduct, err := svc.List(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	none, err := svc.List(ctx, product.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateErrors(t *testing.T) {
	svc, product := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, storeapi.CreateSKURequest{ProductID: 0, Code: "", StockQuantity: -1})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 3)

	_, err = svc.Create(ctx, storeapi.CreateSKURequest{ProductID: 777, Code: "X"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, storeapi.CreateSKURequest{ProductID: product.ID, Code: "DUP"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, storeapi.CreateSKURequest{ProductID: product.ID, Code: "DUP"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}
