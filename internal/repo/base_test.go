package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

type ctxKey struct{}

func TestBaseDBBindsContext(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:repo_base?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	base := NewBase(conn)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	scoped := base.DB(ctx)
	require.NotNil(t, scoped.Statement)
	if scoped.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", scoped.Statement.Context)
	}

	// a nil context falls back to the raw connection
	if base.DB(nil) != conn {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseRebind(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:repo_rebind?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	base := NewBase(conn)

	require.Same(t, conn, base.Rebind(nil).DB(nil))

	tx := conn.Session(&gorm.Session{NewDB: true})
	rebound := base.Rebind(tx)
	require.Same(t, tx, rebound.DB(nil))
	require.Same(t, conn, base.DB(nil), "rebinding must not change the original")
}

func TestLookupError(t *testing.T) {
	err := LookupError(gorm.ErrRecordNotFound, "order", 7)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.Equal(t, "order 7 not found", pkgerrors.As(err).Message())

	cause := errors.New("connection refused")
	err = LookupError(cause, "product", 1)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.ErrorIs(t, err, cause)
}
